package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tveten/parsat/internal/sat"
	"github.com/tveten/parsat/internal/share"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parsat.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %s", err)
	}
	return path
}

func TestLoad_noPath(t *testing.T) {
	opts, global, err := Load("", 4)
	if err != nil {
		t.Fatalf("Load(): unexpected error: %s", err)
	}
	if len(opts) != 4 {
		t.Fatalf("len(opts) = %d, want 4", len(opts))
	}
	for i, o := range opts {
		if o != sat.DefaultOptions() {
			t.Errorf("opts[%d] = %+v, want defaults", i, o)
		}
	}
	if global.NCores != 4 {
		t.Errorf("NCores = %d, want 4", global.NCores)
	}
}

func TestLoad_defaultAndOverride(t *testing.T) {
	path := writeTemp(t, `
[global]
deterministic = true
control_mode = incremental

[default]
var_decay = 0.8
restart_policy = luby

[solver1]
var_decay = 0.5
restart_policy = picosat
`)

	opts, global, err := Load(path, 3)
	if err != nil {
		t.Fatalf("Load(): unexpected error: %s", err)
	}

	if !global.Deterministic {
		t.Errorf("Deterministic = false, want true")
	}
	if global.Control != share.ControlIncremental {
		t.Errorf("Control = %v, want ControlIncremental", global.Control)
	}

	if opts[0].VarDecay != 0.8 || opts[0].RestartPolicy != sat.RestartLuby {
		t.Errorf("opts[0] = %+v, want default-section overrides", opts[0])
	}
	if opts[2].VarDecay != 0.8 || opts[2].RestartPolicy != sat.RestartLuby {
		t.Errorf("opts[2] = %+v, want default-section overrides", opts[2])
	}
	if opts[1].VarDecay != 0.5 || opts[1].RestartPolicy != sat.RestartPicosat {
		t.Errorf("opts[1] = %+v, want solver1-specific overrides", opts[1])
	}
}

func TestUnknownKeys(t *testing.T) {
	path := writeTemp(t, `
[default]
var_decay = 0.8
vardecay_typo = 0.9
`)

	unknown, err := UnknownKeys(path)
	if err != nil {
		t.Fatalf("UnknownKeys(): unexpected error: %s", err)
	}
	if len(unknown) != 1 || unknown[0] != "default.vardecay_typo" {
		t.Errorf("UnknownKeys() = %v, want [default.vardecay_typo]", unknown)
	}
}
