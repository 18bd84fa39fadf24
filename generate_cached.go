package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dvgjettinggrid/jetgridgen/pkg/cache"
	"github.com/dvgjettinggrid/jetgridgen/pkg/noisestack"
)

// generateStack produces a noise stack for genCfg, consulting the
// disk-backed cache keyed on its parameters when cacheDir is non-empty
// (§5: "implementations MAY offer a disk-backed cache of the grayscale
// stack between runs"). A cache miss or any cache error falls back to
// regenerating; caching is best-effort and never fails the run.
func generateStack(cacheDir string, genCfg noisestack.GenConfig) *noisestack.Stack {
	if cacheDir == "" {
		return noisestack.Generate(genCfg)
	}

	canonical := fmt.Sprintf("T=%d;N=%d;Dt=%g;X=%g;Seed=%d",
		genCfg.T, genCfg.N, genCfg.DtFrame, genCfg.XStep, genCfg.Seed)
	key := cache.Key(canonical)
	path := cache.Path(cacheDir, key)

	if cache.Exists(path) {
		if s, ok := loadCached(path, genCfg); ok {
			return s
		}
	}

	s := noisestack.Generate(genCfg)
	storeCached(cacheDir, path, genCfg, s)
	return s
}

func loadCached(path string, genCfg noisestack.GenConfig) (*noisestack.Stack, bool) {
	c, err := cache.Open(path)
	if err != nil {
		log.Printf("cache: open %s: %v (regenerating)", path, err)
		return nil, false
	}
	defer c.Close()

	t, n := c.Shape()
	if t != genCfg.T || n != genCfg.N {
		return nil, false
	}
	src := c.Stack()
	dst := noisestack.New(t, n, n)
	copy(dst.Data, src.Data)
	return dst, true
}

func storeCached(cacheDir, path string, genCfg noisestack.GenConfig, s *noisestack.Stack) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("cache: mkdir %s: %v (not caching)", cacheDir, err)
		return
	}
	c, err := cache.Create(path, genCfg.T, genCfg.N)
	if err != nil {
		log.Printf("cache: create %s: %v (not caching)", path, err)
		return
	}
	defer c.Close()
	copy(c.Stack().Data, s.Data)
}
