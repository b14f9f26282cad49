package ct2ctl

import (
	"fmt"
	"os"
	"path/filepath"
)

// firstModelDir returns the name of the first converted model directory
// under dir, identified by the model.bin marker.
func firstModelDir(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), "model.bin")); err == nil {
			return e.Name(), nil
		}
	}
	return "", fmt.Errorf("no converted models found in %s", dir)
}

// hasHostModels reports whether ~/models/ct2 contains at least one
// converted model.
func hasHostModels() bool {
	dir := filepath.Join(homeDir(), "models", "ct2")
	_, err := firstModelDir(dir)
	return err == nil
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}
