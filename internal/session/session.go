// Package session assembles the tracker, bug simulator, and strategy
// generator into one explicitly owned simulation context. Sessions are
// independent of each other; nothing in the engine is ambient global
// state.
package session

import (
	"log/slog"
	"time"

	"github.com/zero-day-ai/heapsim/internal/bug"
	"github.com/zero-day-ai/heapsim/internal/strategy"
	"github.com/zero-day-ai/heapsim/internal/tracker"
	"github.com/zero-day-ai/heapsim/internal/types"
)

// Session is one simulation context. Mutations go through the embedded
// components' public operations; the session itself only adds identity,
// the paired reset lifecycle, and snapshot views.
type Session struct {
	ID        types.SessionID
	CreatedAt time.Time

	Tracker  *tracker.Tracker
	Bugs     *bug.Simulator
	Strategy *strategy.Generator

	logger *slog.Logger
}

// New creates a fresh session with empty state.
func New() *Session {
	tr := tracker.New()
	bugs := bug.NewSimulator(tr)
	return &Session{
		ID:        types.NewSessionID(),
		CreatedAt: time.Now(),
		Tracker:   tr,
		Bugs:      bugs,
		Strategy:  strategy.NewGenerator(tr, bugs),
		logger:    slog.Default().With(slog.String("component", "session")),
	}
}

// SetLogger routes the session's and all component logs through the given
// logger.
func (s *Session) SetLogger(logger *slog.Logger) {
	s.logger = logger.With(slog.String("component", "session"), slog.String("session_id", s.ID.String()))
	s.Tracker.SetLogger(logger)
	s.Bugs.SetLogger(logger)
	s.Strategy.SetLogger(logger)
}

// Reset clears tracker and bug state together. The two resets must happen
// as a pair: a bug table referring to a cleared allocation table would
// dangle.
func (s *Session) Reset() {
	s.Tracker.Reset()
	s.Bugs.Reset()
	s.logger.Info("session reset", slog.String("session_id", s.ID.String()))
}
