package main

import "sync"

// ServerState holds the service mode's mutable state: the configuration of
// the run in progress (if any), its live progress, and the last completed
// result, all guarded by a single RWMutex per the teacher's state pattern.
type ServerState struct {
	mu sync.RWMutex

	Running     bool
	Stage       string
	StageFrame  int
	StageTotal  int
	CurrentCfg  *Config
	LastResult  *RunResult
	LastError   string
}

var serverState = &ServerState{}

func (s *ServerState) beginRun(cfg *Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Running = true
	s.CurrentCfg = cfg
	s.Stage = "starting"
	s.StageFrame = 0
	s.StageTotal = cfg.NFrames
	s.LastError = ""
}

func (s *ServerState) setProgress(stage string, frame, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stage = stage
	s.StageFrame = frame
	s.StageTotal = total
}

func (s *ServerState) finishRun(result *RunResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Running = false
	if err != nil {
		s.LastError = err.Error()
		return
	}
	s.LastResult = result
	s.Stage = "done"
}

// Snapshot is a read-only copy of the fields the HTTP/WebSocket handlers
// expose, taken under the read lock.
type Snapshot struct {
	Running    bool
	Stage      string
	StageFrame int
	StageTotal int
	LastError  string
	HasResult  bool
	RunID      string
}

func (s *ServerState) snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Running:    s.Running,
		Stage:      s.Stage,
		StageFrame: s.StageFrame,
		StageTotal: s.StageTotal,
		LastError:  s.LastError,
		HasResult:  s.LastResult != nil,
	}
	if s.LastResult != nil {
		snap.RunID = s.LastResult.RunID
	}
	return snap
}
