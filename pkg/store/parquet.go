// Package store persists a generated valve schedule in columnar form
// (`<base>_valves_stack.parquet`), one row per frame.
package store

import (
	"encoding/json"
	"io"

	"github.com/segmentio/parquet-go"

	"github.com/dvgjettinggrid/jetgridgen/pkg/grid"
	"github.com/dvgjettinggrid/jetgridgen/pkg/valves"
)

// Row is one frame of the valve schedule: its index, duration, and the
// list of valve indices that are open.
type Row struct {
	Frame       int32   `parquet:"frame"`
	DurationMs  int32   `parquet:"duration_ms"`
	OpenValves  []int32 `parquet:"open_valves,list"`
}

// NewWriter returns a generic parquet writer over Row, Brotli-compressed,
// carrying the run configuration as file key/value metadata the way the teacher
// attaches its hardware config to each capture file.
func NewWriter(w io.Writer, config interface{}) *parquet.GenericWriter[Row] {
	configStr := "{}"
	if config != nil {
		if b, err := json.Marshal(config); err == nil {
			configStr = string(b)
		}
	}
	return parquet.NewGenericWriter[Row](w,
		parquet.KeyValueMetadata("config", configStr),
		parquet.Compression(&parquet.Brotli),
	)
}

// WriteState writes every frame of st as parquet rows and closes the
// writer, flushing its footer.
func WriteState(w io.Writer, st *valves.State, durationMs int, config interface{}) error {
	pw := NewWriter(w, config)
	rows := make([]Row, st.T)
	for t := 0; t < st.T; t++ {
		var open []int32
		for v := 0; v < grid.V; v++ {
			if st.At(t, v) {
				open = append(open, int32(v))
			}
		}
		rows[t] = Row{Frame: int32(t), DurationMs: int32(durationMs), OpenValves: open}
	}
	if _, err := pw.Write(rows); err != nil {
		return err
	}
	return pw.Close()
}

// ReadState reconstructs a valves.State from a parquet file written by
// WriteState. r must support random access over exactly size bytes; an
// io.SectionReader over an *os.File is the usual case.
func ReadState(r io.ReaderAt, size int64) (*valves.State, error) {
	pr := parquet.NewGenericReader[Row](io.NewSectionReader(r, 0, size))
	defer pr.Close()

	rows := make([]Row, pr.NumRows())
	n, err := pr.Read(rows)
	if err != nil && err != io.EOF {
		return nil, err
	}
	rows = rows[:n]

	st := valves.NewState(len(rows))
	for _, row := range rows {
		for _, v := range row.OpenValves {
			st.Set(int(row.Frame), int(v), true)
		}
	}
	return st, nil
}
