package store

import (
	"os"
	"testing"

	"github.com/dvgjettinggrid/jetgridgen/pkg/grid"
	"github.com/dvgjettinggrid/jetgridgen/pkg/valves"
)

func TestWriteReadRoundTrip(t *testing.T) {
	st := valves.NewState(5)
	for tt := 0; tt < 5; tt++ {
		for v := 0; v < grid.V; v++ {
			st.Set(tt, v, (tt*3+v)%11 == 0)
		}
	}

	f, err := os.CreateTemp(t.TempDir(), "valves-*.parquet")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	if err := WriteState(f, st, 100, map[string]int{"seed": 1}); err != nil {
		t.Fatalf("WriteState: %v", err)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	got, err := ReadState(f, info.Size())
	if err != nil {
		t.Fatalf("ReadState: %v", err)
	}
	if got.T != st.T {
		t.Fatalf("T = %d, want %d", got.T, st.T)
	}
	for tt := 0; tt < st.T; tt++ {
		for v := 0; v < grid.V; v++ {
			if got.At(tt, v) != st.At(tt, v) {
				t.Fatalf("frame %d valve %d mismatch", tt, v)
			}
		}
	}
}
