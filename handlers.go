package main

import (
	"net/http"

	"github.com/segmentio/encoding/json"
)

// handleRun accepts a configuration body and starts a run in the
// background, returning immediately with {"accepted": true}; progress is
// read from /api/status or /ws. Only one run proceeds at a time; a run
// already in progress is rejected with 409.
func handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cfg Config
	cfg.XStepConvention = "scaled"
	cfg.RescaleMode = "symmetric"
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	serverState.mu.Lock()
	if serverState.Running {
		serverState.mu.Unlock()
		http.Error(w, "a run is already in progress", http.StatusConflict)
		return
	}
	serverState.Running = true
	serverState.mu.Unlock()

	serverState.beginRun(&cfg)
	broadcastJSON(map[string]interface{}{"type": "run_started"})

	go func() {
		result, err := Run(&cfg, func(stage string, frame, total int) {
			serverState.setProgress(stage, frame, total)
			broadcastJSON(map[string]interface{}{
				"type": "progress", "stage": stage, "frame": frame, "total": total,
			})
		})
		serverState.finishRun(result, err)
		if err != nil {
			broadcastJSON(map[string]interface{}{"type": "run_failed", "error": err.Error()})
			return
		}
		broadcastJSON(map[string]interface{}{"type": "run_complete", "run_id": result.RunID})
	}()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"accepted": true})
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := serverState.snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func handleResult(w http.ResponseWriter, r *http.Request) {
	serverState.mu.RLock()
	result := serverState.LastResult
	serverState.mu.RUnlock()

	if result == nil {
		http.Error(w, "no completed run", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":       result.RunID,
		"proto_path":   result.ProtoPath,
		"alpha_path":   result.AlphaPath,
		"pdf_path":     result.PDFPath,
		"parquet_path": result.ParquetPath,
		"meta_path":    result.MetaPath,
	})
}
