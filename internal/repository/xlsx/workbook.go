// Package xlsx stores downloaded spreadsheet exports and reads them back
// for a quick summary.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"shopsearch/internal/repository"
)

// Download writes an export stream into the target directory.
type Download struct {
	Dir string
	Log *slog.Logger
}

func New(dir string, log *slog.Logger) *Download {
	if log == nil {
		log = slog.Default()
	}
	if dir == "" {
		dir = "."
	}
	return &Download{Dir: dir, Log: log}
}

// Save stores the bytes produced by fill under name and returns the path.
// Nothing is left behind when fill fails.
func (d *Download) Save(ctx context.Context, name string, fill func(ctx context.Context, w io.Writer) (int64, error)) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	if name == "" || filepath.Base(name) != name {
		return "", 0, fmt.Errorf("xlsx: bad file name %q", name)
	}

	path := filepath.Join(d.Dir, name)
	var n int64
	err := repository.WriteAtomic(path, func(f *os.File) error {
		var err error
		n, err = fill(ctx, f)
		return err
	})
	if err != nil {
		return "", n, err
	}

	d.Log.Info("workbook saved", "path", path, "bytes", n)
	return path, n, nil
}

type SheetSummary struct {
	Name   string
	Rows   int // data rows, header excluded
	Header []string
}

type Summary struct {
	Sheets []SheetSummary
}

func (s Summary) TotalRows() int {
	n := 0
	for _, sh := range s.Sheets {
		n += sh.Rows
	}
	return n
}

// Inspect opens the workbook at path and counts the data rows of every sheet.
func Inspect(path string) (Summary, error) {
	f, err := excelize.OpenFile(filepath.Clean(path))
	if err != nil {
		return Summary{}, fmt.Errorf("xlsx: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return summarize(f)
}

// InspectReader is Inspect for an in-memory workbook.
func InspectReader(r io.Reader) (Summary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Summary{}, fmt.Errorf("xlsx: open: %w", err)
	}
	defer func() { _ = f.Close() }()
	return summarize(f)
}

func summarize(f *excelize.File) (Summary, error) {
	var out Summary
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return Summary{}, fmt.Errorf("xlsx: read sheet %s: %w", name, err)
		}

		sh := SheetSummary{Name: name}
		if len(rows) > 0 {
			sh.Header = rows[0]
			for _, row := range rows[1:] {
				if !blank(row) {
					sh.Rows++
				}
			}
		}
		out.Sheets = append(out.Sheets, sh)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
