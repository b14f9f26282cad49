package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `addr: :9999
models_dir: /srv/models
default_translator: en-de
max_queue_depth: 16
engine:
  device: cuda
  compute_type: float16
  device_indices: [0, 1]
`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":9999" || cfg.ModelsDir != "/srv/models" || cfg.DefaultTranslator != "en-de" || cfg.MaxQueueDepth != 16 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Engine.Device != "cuda" || cfg.Engine.ComputeType != "float16" || len(cfg.Engine.DeviceIndices) != 2 {
		t.Fatalf("unexpected engine settings: %+v", cfg.Engine)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","models_dir":"/m","default_generator":"gpt2","queue_timeout_ms":250}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":7070" || cfg.ModelsDir != "/m" || cfg.DefaultGenerator != "gpt2" || cfg.QueueTimeoutMS != 250 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", `addr = ":8081"
models_dir = "/x"
default_whisper = "whisper-tiny"

[engine]
compute_type = "int8"
cpu_core_offset = 2

[[models]]
id = "en-de"
kind = "translator"
path = "/x/en-de"

[[models]]
kind = "generator"
path = "/x/gpt2"
[models.engine]
device = "cuda"
`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":8081" || cfg.DefaultWhisper != "whisper-tiny" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Engine.ComputeType != "int8" {
		t.Fatalf("unexpected engine settings: %+v", cfg.Engine)
	}
	if cfg.Engine.CPUCoreOffset == nil || *cfg.Engine.CPUCoreOffset != 2 {
		t.Fatalf("cpu_core_offset not decoded: %+v", cfg.Engine.CPUCoreOffset)
	}
	if len(cfg.Models) != 2 {
		t.Fatalf("expected 2 model entries, got %d", len(cfg.Models))
	}
	if cfg.Models[0].ID != "en-de" || cfg.Models[0].Kind != "translator" {
		t.Fatalf("unexpected model entry: %+v", cfg.Models[0])
	}
	if cfg.Models[1].Engine.Device != "cuda" {
		t.Fatalf("per-model engine override lost: %+v", cfg.Models[1])
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil { t.Fatalf("expected unsupported extension error") }
}
