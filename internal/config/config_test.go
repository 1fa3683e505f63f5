package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.HeadlineSize != 3 {
		t.Errorf("HeadlineSize = %d, want 3", cfg.HeadlineSize)
	}
	if cfg.OverseasRegion != "VOTO EN EL EXTERIOR" {
		t.Errorf("OverseasRegion = %q", cfg.OverseasRegion)
	}
	want := []string{"Información General", "Información Acta"}
	if diff := cmp.Diff(want, cfg.PseudoRows); diff != "" {
		t.Errorf("PseudoRows mismatch:\n%s", diff)
	}
	if cfg.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", cfg.Workers)
	}
}

func TestLoadFromPath_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "headline_size: 5\noverseas_region: EXTERIOR\npseudo_rows:\n  - Filler\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.HeadlineSize != 5 {
		t.Errorf("HeadlineSize = %d, want 5", cfg.HeadlineSize)
	}
	if cfg.OverseasRegion != "EXTERIOR" {
		t.Errorf("OverseasRegion = %q", cfg.OverseasRegion)
	}
	if len(cfg.PseudoRows) != 1 || cfg.PseudoRows[0] != "Filler" {
		t.Errorf("PseudoRows = %v", cfg.PseudoRows)
	}
	// Unset fields pick up defaults.
	if cfg.HistoryPath != DefaultHistoryPath {
		t.Errorf("HistoryPath = %q, want default", cfg.HistoryPath)
	}
}

func TestLoad_DetectJSON(t *testing.T) {
	cfg, err := Load([]byte(`{"headline_size": 2}`), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HeadlineSize != 2 {
		t.Errorf("HeadlineSize = %d, want 2", cfg.HeadlineSize)
	}
	if cfg.OverseasRegion == "" {
		t.Error("defaults not applied")
	}
}

func TestLoad_DetectYAML(t *testing.T) {
	cfg, err := Load([]byte("workers: 4\n"), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load([]byte(":\n\t- bad"), ".yaml"); err == nil {
		t.Fatal("expected parse error")
	}
}
