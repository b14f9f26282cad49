package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"ct2d/internal/common/fsutil"
	"ct2d/internal/config"
	"ct2d/pkg/types"
)

// LoadDir scans a directory for converted model directories and builds a
// registry. A subdirectory qualifies when it contains a model.bin; the ID is
// the directory name and Path the absolute directory path. Scanned models
// default to the translator kind; use explicit config entries for generators
// and whisper models.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if !e.IsDir() { continue }
		p := filepath.Join(abs, e.Name())
		if !fsutil.PathExists(filepath.Join(p, "model.bin")) { continue }
		models = append(models, types.Model{
			ID:   e.Name(),
			Kind: types.KindTranslator,
			Path: p,
		})
	}
	return models, nil
}

// Merge combines explicit config entries with scanned models. Config entries
// win on ID collision, so a scanned directory can be re-declared with a
// different kind or engine settings.
func Merge(scanned []types.Model, entries []config.ModelEntry) ([]types.Model, error) {
	byID := make(map[string]int, len(scanned))
	out := append([]types.Model(nil), scanned...)
	for i, m := range out {
		byID[m.ID] = i
	}
	for _, e := range entries {
		if e.Path == "" {
			return nil, fmt.Errorf("model entry %q: path is required", e.ID)
		}
		switch e.Kind {
		case types.KindTranslator, types.KindGenerator, types.KindWhisper:
		default:
			return nil, fmt.Errorf("model entry %q: unknown kind %q", e.ID, e.Kind)
		}
		p, err := fsutil.ExpandHome(e.Path)
		if err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("abs path: %w", err)
		}
		id := e.ID
		if id == "" {
			id = filepath.Base(abs)
		}
		m := types.Model{
			ID:          id,
			Kind:        e.Kind,
			Path:        abs,
			Device:      e.Engine.Device,
			ComputeType: e.Engine.ComputeType,
		}
		if i, ok := byID[id]; ok {
			out[i] = m
			continue
		}
		byID[id] = len(out)
		out = append(out, m)
	}
	return out, nil
}
