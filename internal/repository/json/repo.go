package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"shopsearch/internal/repository"
)

type Repo struct {
	Path string
	Log  *slog.Logger
}

func New(path string, log *slog.Logger) *Repo {
	if log == nil {
		log = slog.Default()
	}
	return &Repo{Path: path, Log: log}
}

func (r *Repo) SaveSearch(ctx context.Context, res repository.SearchSnapshot) error {
	if err := r.saveAny(ctx, res); err != nil {
		return err
	}
	r.Log.Info("search json saved", "path", r.Path, "count", res.Count)
	return nil
}

func (r *Repo) SaveRows(ctx context.Context, res repository.RowsSnapshot) error {
	if err := r.saveAny(ctx, res); err != nil {
		return err
	}
	r.Log.Info("rows json saved", "path", r.Path, "count", res.Count)
	return nil
}

func (r *Repo) saveAny(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Path == "" {
		return fmt.Errorf("jsonfile repo: empty path")
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile repo: encode: %w", err)
	}
	b = append(b, '\n')

	return repository.WriteAtomic(r.Path, func(f *os.File) error {
		_, err := f.Write(b)
		return err
	})
}

// Load reads a snapshot written by SaveSearch.
func Load(path string) (repository.SearchSnapshot, error) {
	var snap repository.SearchSnapshot
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(b, &snap); err != nil {
		return snap, fmt.Errorf("jsonfile repo: decode %s: %w", path, err)
	}
	return snap, nil
}
