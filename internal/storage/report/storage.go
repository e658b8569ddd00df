// Package report persists walk-forward reports as plain JSON artifacts.
package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quantfold/quantfold/internal/core"
	"github.com/quantfold/quantfold/internal/walkforward"
)

// Storage defines the interface for report artifact backends.
type Storage interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Save serializes a report and writes it under its run ID. Returns the
// artifact path.
func Save(ctx context.Context, store Storage, rep *walkforward.Report) (string, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", core.WrapError(core.ErrStorageFailed, err)
	}

	path := fmt.Sprintf("reports/%s.json", rep.RunID)
	if err := store.Write(ctx, path, data); err != nil {
		return "", core.WrapError(core.ErrStorageFailed, err)
	}
	return path, nil
}

// Load reads a report artifact back from storage.
func Load(ctx context.Context, store Storage, path string) (*walkforward.Report, error) {
	data, err := store.Read(ctx, path)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	var rep walkforward.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return &rep, nil
}
