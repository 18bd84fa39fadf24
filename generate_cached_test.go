package main

import (
	"path/filepath"
	"testing"

	"github.com/dvgjettinggrid/jetgridgen/pkg/noisestack"
)

func TestGenerateStackCachesAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	genCfg := noisestack.GenConfig{T: 3, N: 4, DtFrame: 0.1, XStep: 0.02, Seed: 11, NumWorkers: 1}

	first := generateStack(dir, genCfg)

	entries, err := filepathGlob(dir)
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one cache file after first generate, got %d", len(entries))
	}

	second := generateStack(dir, genCfg)
	if len(second.Data) != len(first.Data) {
		t.Fatalf("cached stack length = %d, want %d", len(second.Data), len(first.Data))
	}
	for i := range first.Data {
		if first.Data[i] != second.Data[i] {
			t.Fatalf("cached stack differs at index %d: %v vs %v", i, first.Data[i], second.Data[i])
		}
	}
}

func TestGenerateStackNoCacheDir(t *testing.T) {
	genCfg := noisestack.GenConfig{T: 2, N: 4, DtFrame: 0.1, XStep: 0.02, Seed: 3, NumWorkers: 1}
	s := generateStack("", genCfg)
	if len(s.Data) != genCfg.T*genCfg.N*genCfg.N {
		t.Fatalf("stack length = %d, want %d", len(s.Data), genCfg.T*genCfg.N*genCfg.N)
	}
}

func filepathGlob(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.noisecache"))
}
