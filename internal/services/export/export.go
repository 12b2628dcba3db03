// Package export writes the filtered catalog as a spreadsheet download
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/mcoot/cyberstore/internal/dependencies/clock"
	"github.com/mcoot/cyberstore/internal/model"
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// SheetName is the worksheet holding exported games
const SheetName = "游戏列表"

// NoDescription replaces a missing description
const NoDescription = "无"

// Columns are the exported column labels in order
var Columns = []string{"游戏ID", "游戏名称", "作者/开发商", "价格", "发布日期", "简介"}

// ErrUnknownFormat is returned for formats other than xlsx and csv
var ErrUnknownFormat = errors.New("unknown export format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFormat maps an empty value to xlsx
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Exporter writes game listings to files
type Exporter struct {
	clock clock.Clock
}

// New creates an Exporter
func New(clock clock.Clock) *Exporter {
	return &Exporter{clock: clock}
}

// Filename returns the download name for an export made now
func (e *Exporter) Filename(format Format) string {
	return fmt.Sprintf("CyberStore_Export_%d.%s", e.clock.Now().UnixMilli(), format)
}

// Write encodes games to w in the given format
func (e *Exporter) Write(w io.Writer, games []model.Game, format Format) error {
	switch format {
	case FormatXLSX:
		return writeXLSX(w, games)
	case FormatCSV:
		return writeCSV(w, games)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Row returns the exported cells of one game
func Row(g model.Game) []string {
	return []string{
		string(g.ID),
		g.Name,
		g.Author,
		strconv.FormatFloat(g.Price, 'f', -1, 64),
		g.ReleaseDate,
		g.DescriptionOr(NoDescription),
	}
}

func writeCSV(w io.Writer, games []model.Game) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, g := range games {
		if err := writer.Write(Row(g)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, games []model.Game) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, g := range games {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			string(g.ID),
			g.Name,
			g.Author,
			g.Price,
			g.ReleaseDate,
			g.DescriptionOr(NoDescription),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
