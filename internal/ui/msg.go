package ui

import (
	"time"

	"github.com/rovshanmuradov/dealiq/internal/engine"
	"github.com/rovshanmuradov/dealiq/internal/ui/state"
)

// Tea message types for UI communication

// RankedMsg carries the result of one recompute. Gen is the generation the
// request was issued under; results for an older generation are dropped.
type RankedMsg struct {
	Gen     uint64
	Inputs  state.Inputs
	Ranking *engine.Ranking
	Err     error
}

// ExportedMsg reports the files written by an export.
type ExportedMsg struct {
	Paths []string
	Err   error
}

// logTickMsg refreshes the log tail.
type logTickMsg time.Time
