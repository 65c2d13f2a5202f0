package mkbparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/giygas/mkb-merge/mkbparser/entities"
	"github.com/mattn/go-runewidth"
)

// sampleCellWidth caps the display width of a sample cell
const sampleCellWidth = 40

// WriteCSV writes the header and one comma-separated row per record
func WriteCSV(w io.Writer, records []entities.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(entities.OutputColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec.Fields()); err != nil {
			return fmt.Errorf("failed to write record %s: %w", rec.Code, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the records to path through a temporary file in the same
// directory, so a failed write leaves any previous output untouched.
func WriteFile(path string, records []entities.Record) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = WriteCSV(buf, records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = buf.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// FormatSample renders the first n records as an aligned text table with a row index
func FormatSample(records []entities.Record, n int) string {
	if len(records) == 0 || n <= 0 {
		return "Empty table\n"
	}
	n = min(n, len(records))

	rows := make([][]string, 0, n+1)
	rows = append(rows, append([]string{""}, entities.OutputColumns...))
	for i := 0; i < n; i++ {
		row := append([]string{strconv.Itoa(i)}, records[i].Fields()...)
		for j := range row {
			row[j] = sampleCell(row[j])
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for j, cell := range row {
			widths[j] = max(widths[j], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for j, cell := range row {
			switch {
			case j == 0:
				b.WriteString(runewidth.FillLeft(cell, widths[j]))
			case j == len(row)-1:
				b.WriteString("  ")
				b.WriteString(cell)
			default:
				b.WriteString("  ")
				b.WriteString(runewidth.FillRight(cell, widths[j]))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sampleCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if runewidth.StringWidth(s) <= sampleCellWidth {
		return s
	}
	return runewidth.Truncate(s, sampleCellWidth, "...")
}
