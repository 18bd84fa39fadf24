package schedule

import (
	"bytes"
	"testing"

	"github.com/dvgjettinggrid/jetgridgen/pkg/grid"
	"github.com/dvgjettinggrid/jetgridgen/pkg/valves"
)

func sampleHeader() Header {
	thr := 0.5
	return Header{
		Type: "OpenSimplex noise v2.0", Date: "2026-01-01 00:00:00",
		NFrames: 6, DtFrame: 0.1,
		BWThreshold: &thr,
		SpatialFeatureSizeA: 50, TemporalFeatureSizeA: 0.1,
		SeedA: 1, MinValveDuration: 0,
		PCSPixelDist: 32, NPixels: 512,
		XStepA: 0.02, TStepA: 0.1,
	}
}

func TestRoundTrip(t *testing.T) {
	st := valves.NewState(6)
	for t2 := 0; t2 < 6; t2++ {
		for v := 0; v < grid.V; v++ {
			st.Set(t2, v, (t2+v)%7 == 0)
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, sampleHeader(), st); err != nil {
		t.Fatalf("Write: %v", err)
	}

	_, got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.T != st.T {
		t.Fatalf("T = %d, want %d", got.T, st.T)
	}
	for tt := 0; tt < st.T; tt++ {
		for v := 0; v < grid.V; v++ {
			if got.At(tt, v) != st.At(tt, v) {
				t.Fatalf("frame %d valve %d: got %v want %v", tt, v, got.At(tt, v), st.At(tt, v))
			}
		}
	}
}

func TestEmptyValveListLine(t *testing.T) {
	st := valves.NewState(2)
	var buf bytes.Buffer
	if err := Write(&buf, sampleHeader(), st); err != nil {
		t.Fatalf("Write: %v", err)
	}
	_, got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for v := 0; v < grid.V; v++ {
		if got.At(0, v) || got.At(1, v) {
			t.Fatal("expected all-closed frames to round-trip as all-closed")
		}
	}
}

func TestDurationHeaderRoundTrips(t *testing.T) {
	st := valves.NewState(1)
	h := sampleHeader()
	h.NFrames = 1
	h.DtFrame = 0.025
	var buf bytes.Buffer
	if err := Write(&buf, h, st); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.DtFrame != 0.025 {
		t.Fatalf("DtFrame = %v, want 0.025", got.DtFrame)
	}
}
