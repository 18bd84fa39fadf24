package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadValidThreshold(t *testing.T) {
	path := writeConfig(t, `{
		"N_FRAMES": 100, "DT_FRAME": 0.1, "BW_THRESHOLD": 0.5,
		"SPATIAL_FEATURE_SIZE_A": 50, "TEMPORAL_FEATURE_SIZE_A": 0.1,
		"SEED_A": 1, "MIN_VALVE_DURATION": 0, "EXPORT_PATH_NO_EXT": "out/run"
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NFrames != 100 {
		t.Fatalf("NFrames = %d, want 100", cfg.NFrames)
	}
	if cfg.XStepConvention != "scaled" {
		t.Fatalf("default XStepConvention = %q, want scaled", cfg.XStepConvention)
	}
}

func TestLoadBothModesSetIsError(t *testing.T) {
	path := writeConfig(t, `{
		"N_FRAMES": 10, "DT_FRAME": 0.1, "BW_THRESHOLD": 0.5, "TARGET_TRANSPARENCY": 0.4,
		"SPATIAL_FEATURE_SIZE_A": 50, "TEMPORAL_FEATURE_SIZE_A": 0.1,
		"SEED_A": 1, "EXPORT_PATH_NO_EXT": "out/run"
	}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected InvalidConfiguration when both modes are set")
	}
}

func TestLoadNeitherModeSetIsError(t *testing.T) {
	path := writeConfig(t, `{
		"N_FRAMES": 10, "DT_FRAME": 0.1,
		"SPATIAL_FEATURE_SIZE_A": 50, "TEMPORAL_FEATURE_SIZE_A": 0.1,
		"SEED_A": 1, "EXPORT_PATH_NO_EXT": "out/run"
	}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected InvalidConfiguration when neither mode is set")
	}
}

func TestLoadNonPositiveDtFrameIsError(t *testing.T) {
	path := writeConfig(t, `{
		"N_FRAMES": 10, "DT_FRAME": 0, "BW_THRESHOLD": 0.5,
		"SPATIAL_FEATURE_SIZE_A": 50, "TEMPORAL_FEATURE_SIZE_A": 0.1,
		"SEED_A": 1, "EXPORT_PATH_NO_EXT": "out/run"
	}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected InvalidConfiguration for DT_FRAME <= 0")
	}
}

func TestXStepConventions(t *testing.T) {
	direct := &Config{XStepConvention: "direct"}
	if got := direct.XStep(50, 32); got != 1.0/50 {
		t.Fatalf("direct XStep = %v, want %v", got, 1.0/50)
	}
	scaled := &Config{XStepConvention: "scaled"}
	if got := scaled.XStep(50, 32); got != 1.0/50 {
		t.Fatalf("scaled XStep at pixelDist=32 = %v, want %v", got, 1.0/50)
	}
	scaled64 := &Config{XStepConvention: "scaled"}
	if got := scaled64.XStep(50, 64); got != 1.0/(50*2) {
		t.Fatalf("scaled XStep at pixelDist=64 = %v, want %v", got, 1.0/100)
	}
}

func TestBEnabled(t *testing.T) {
	c := &Config{SpatialFeatureSizeB: 0, TemporalFeatureSizeB: 0}
	if c.BEnabled() {
		t.Fatal("BEnabled true with zero feature sizes")
	}
	c2 := &Config{SpatialFeatureSizeB: 100, TemporalFeatureSizeB: 0.1}
	if !c2.BEnabled() {
		t.Fatal("BEnabled false with nonzero feature sizes")
	}
}
