package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mcoot/cyberstore/internal/services/query"
)

const nextQueryHeader = "X-Next-Query"

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Catalog commands",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesShowCmd())
	cmd.AddCommand(newGamesAddCmd())
	cmd.AddCommand(newGamesEditCmd())
	cmd.AddCommand(newGamesDeleteCmd())
	cmd.AddCommand(newGamesExportCmd())

	return cmd
}

// listFlags are the filter and paging flags shared by list, delete and export
type listFlags struct {
	raw      string
	name     string
	author   string
	minPrice string
	maxPrice string
	view     string
	page     int
}

func (f *listFlags) register(cmd *cobra.Command, paging bool) {
	cmd.Flags().StringVar(&f.raw, "query", "", "Start from a query string such as one printed by 'games list'")
	cmd.Flags().StringVar(&f.name, "name", "", "Filter by name substring")
	cmd.Flags().StringVar(&f.author, "author", "", "Filter by author substring")
	cmd.Flags().StringVar(&f.minPrice, "min-price", "", "Minimum price")
	cmd.Flags().StringVar(&f.maxPrice, "max-price", "", "Maximum price")
	if paging {
		cmd.Flags().StringVar(&f.view, "view", "", "View mode: pagination, scroll")
		cmd.Flags().IntVar(&f.page, "page", 0, "Page number (pagination view)")
	}
}

var listFlagNames = []string{"query", "name", "author", "min-price", "max-price", "view", "page"}

func (f *listFlags) any(cmd *cobra.Command) bool {
	for _, name := range listFlagNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// state merges explicit flags over the --query starting point
func (f *listFlags) state(cmd *cobra.Command) (query.State, error) {
	values, err := url.ParseQuery(f.raw)
	if err != nil {
		return query.State{}, fmt.Errorf("invalid --query: %w", err)
	}
	st := query.Decode(values)

	flags := cmd.Flags()
	pick := func(flag, value, current string) string {
		if flags.Changed(flag) {
			return value
		}
		return current
	}
	if flags.Changed("name") || flags.Changed("author") || flags.Changed("min-price") || flags.Changed("max-price") {
		st = st.WithFilters(
			pick("name", f.name, st.Name),
			pick("author", f.author, st.Author),
			pick("min-price", f.minPrice, st.MinPrice),
			pick("max-price", f.maxPrice, st.MaxPrice),
		)
	}
	if flags.Changed("view") {
		st = st.WithView(query.ParseViewMode(f.view))
	}
	if flags.Changed("page") {
		st = st.WithPage(f.page)
	}
	return st, nil
}

func newGamesListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := flags.state(cmd)
			if err != nil {
				return err
			}

			var result GameList
			if err := client.Get("/api/v1/games?"+st.Encode().Encode(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newGamesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get("/api/v1/games/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newGamesAddCmd() *cobra.Command {
	var (
		name, author, cover, description, releaseDate string
		price                                         float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a game to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":   name,
				"author": author,
				"price":  price,
			}
			if cover != "" {
				req["coverUrl"] = cover
			}
			if cmd.Flags().Changed("description") {
				req["description"] = description
			}
			if releaseDate != "" {
				req["releaseDate"] = releaseDate
			}

			var result Game
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name (required)")
	cmd.Flags().StringVar(&author, "author", "", "Author (required)")
	cmd.Flags().Float64Var(&price, "price", 0, "Price (required)")
	cmd.Flags().StringVar(&cover, "cover", "", "Cover image URL")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&releaseDate, "release-date", "", "Release date (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newGamesEditCmd() *cobra.Command {
	var (
		name, author, cover, description, releaseDate string
		price                                         float64
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			set := func(flag, field string, value any) {
				if cmd.Flags().Changed(flag) {
					req[field] = value
				}
			}
			set("name", "name", name)
			set("author", "author", author)
			set("price", "price", price)
			set("cover", "coverUrl", cover)
			set("description", "description", description)
			set("release-date", "releaseDate", releaseDate)
			if len(req) == 0 {
				return fmt.Errorf("nothing to change: pass at least one field flag")
			}

			resp, err := client.Send(http.MethodPatch, "/api/v1/games/"+url.PathEscape(args[0]), req)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			if resp.StatusCode == http.StatusNoContent {
				out.PrintMessage(fmt.Sprintf("No game with id %s; nothing changed", args[0]))
				return nil
			}

			var result Game
			if err := json.Unmarshal(resp.Body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name")
	cmd.Flags().StringVar(&author, "author", "", "Author")
	cmd.Flags().Float64Var(&price, "price", 0, "Price")
	cmd.Flags().StringVar(&cover, "cover", "", "Cover image URL")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&releaseDate, "release-date", "", "Release date (YYYY-MM-DD)")

	return cmd
}

func newGamesDeleteCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game",
		Long: `Delete a game.

When list flags are given the server also reports the list query to show
next, stepping back a page if the deletion emptied the current one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games/" + url.PathEscape(args[0])
			if flags.any(cmd) {
				st, err := flags.state(cmd)
				if err != nil {
					return err
				}
				path += "?" + st.Encode().Encode()
			}

			resp, err := client.Delete(path)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(DeleteResult{
				ID:        args[0],
				NextQuery: resp.Header.Get(nextQueryHeader),
			})
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newGamesExportCmd() *cobra.Command {
	var (
		flags  listFlags
		format string
		dir    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered catalog to a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := flags.state(cmd)
			if err != nil {
				return err
			}
			params := st.Encode()
			params.Set("format", format)

			filename, data, err := client.Download("/api/v1/games/export?" + params.Encode())
			if err != nil {
				return err
			}
			if filename == "" {
				return fmt.Errorf("server did not name the export file")
			}

			path := filepath.Join(dir, filepath.Base(filename))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(ExportResult{Path: path, Bytes: len(data)})
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().StringVar(&format, "format", "xlsx", "File format: xlsx, csv")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write the file into")

	return cmd
}
