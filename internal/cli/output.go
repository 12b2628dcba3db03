package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case Session:
		o.printSession(v)
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case Stats:
		o.printStats(v)
	case DeleteResult:
		o.printDeleteResult(v)
	case ExportResult:
		fmt.Fprintf(o.w, "Exported %d bytes to %s\n", v.Bytes, v.Path)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Session response type
type Session struct {
	User        User `json:"user"`
	OnlineCount int  `json:"onlineCount"`
}

// Game response type
type Game struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Author      string  `json:"author"`
	CoverURL    string  `json:"coverUrl"`
	Description *string `json:"description,omitempty"`
	ReleaseDate string  `json:"releaseDate"`
}

// GameList response type
type GameList struct {
	Items      []Game `json:"items"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
	Page       int    `json:"page"`
	View       string `json:"view"`
	PageSize   int    `json:"pageSize"`
	Query      string `json:"query"`
}

// AuthorCount response type
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// Stats response type
type Stats struct {
	GameCount   int           `json:"gameCount"`
	TotalValue  float64       `json:"totalValue"`
	Authors     []AuthorCount `json:"authors"`
	OnlineCount int           `json:"onlineCount"`
}

// DeleteResult reports a deletion and the list state to show next
type DeleteResult struct {
	ID        string `json:"id"`
	NextQuery string `json:"nextQuery,omitempty"`
}

// ExportResult reports a written export file
type ExportResult struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.Username, u.ID)
	fmt.Fprintf(o.w, "Role: %s\n", u.Role)
}

func (o *Output) printSession(s Session) {
	o.printUser(s.User)
	fmt.Fprintf(o.w, "Online: %d\n", s.OnlineCount)
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s (%s)\n", g.Name, g.ID)
	fmt.Fprintf(o.w, "Author: %s\n", g.Author)
	fmt.Fprintf(o.w, "Price: %s\n", formatPrice(g.Price))
	fmt.Fprintf(o.w, "Released: %s\n", g.ReleaseDate)
	if g.CoverURL != "" {
		fmt.Fprintf(o.w, "Cover: %s\n", g.CoverURL)
	}
	if g.Description != nil {
		fmt.Fprintf(o.w, "Description: %s\n", *g.Description)
	}
}

func (o *Output) printGameList(l GameList) {
	if len(l.Items) == 0 {
		fmt.Fprintln(o.w, "No games found")
	} else {
		tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tAUTHOR\tPRICE\tRELEASED")
		for _, g := range l.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", g.ID, g.Name, g.Author, formatPrice(g.Price), g.ReleaseDate)
		}
		_ = tw.Flush()
	}

	if l.View == "scroll" {
		fmt.Fprintf(o.w, "\n%d games\n", l.Total)
	} else {
		fmt.Fprintf(o.w, "\nPage %d of %d (%d games)\n", l.Page, l.TotalPages, l.Total)
	}
	fmt.Fprintf(o.w, "Query: %s\n", l.Query)
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.w, "Games: %d\n", s.GameCount)
	fmt.Fprintf(o.w, "Total value: %s\n", formatPrice(s.TotalValue))
	fmt.Fprintf(o.w, "Online: %d\n", s.OnlineCount)
	if len(s.Authors) > 0 {
		fmt.Fprintln(o.w, "Authors:")
		for _, a := range s.Authors {
			fmt.Fprintf(o.w, "  %s: %d\n", a.Author, a.Count)
		}
	}
}

func (o *Output) printDeleteResult(d DeleteResult) {
	fmt.Fprintf(o.w, "Deleted game %s\n", d.ID)
	if d.NextQuery != "" {
		fmt.Fprintf(o.w, "Next query: %s\n", d.NextQuery)
	}
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
