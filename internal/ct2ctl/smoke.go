package ct2ctl

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// runSmoke builds the daemon, starts it on a free port and exercises the
// read-only HTTP surface. Works without the native library: the stub build
// still serves /models, /status and /healthz.
func runSmoke(modelsDir string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	if modelsDir == "" {
		hostDir := filepath.Join(homeDir(), "models", "ct2")
		if _, err := firstModelDir(hostDir); err == nil {
			modelsDir = hostDir
		} else {
			modelsDir, err = os.MkdirTemp("", "ct2d-smoke-models-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(modelsDir)
			warn("no host models, serving an empty models dir")
		}
	}

	bin := filepath.Join(os.TempDir(), "ct2d-smoke")
	info("==== Build ct2d ====")
	if err := runCmdStreaming(context.Background(), "go", "build", "-o", bin, "./cmd/ct2d"); err != nil {
		return err
	}
	defer os.Remove(bin)

	port, err := chooseFreePort()
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	info("==== Start ct2d on %s ====", addr)
	cmd := exec.Command(bin, "serve", "--addr", addr, "--models-dir", modelsDir)
	cmd.Dir = root
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return err
	}
	TrackProcess(cmd)
	defer func() { _ = killProcesses() }()

	base := "http://" + addr
	if err := waitHTTP(base+"/healthz", 200, 15*time.Second); err != nil {
		return err
	}
	for _, path := range []string{"/models", "/status", "/readyz"} {
		if err := waitHTTP(base+path, 200, 5*time.Second); err != nil {
			return err
		}
		info("[smoke] GET %s ok", path)
	}
	info("[smoke] daemon healthy")
	return nil
}
