package health

import (
	"context"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to the Pinger interface.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Service encapsulates health-related checks.
type Service struct {
	DB     Pinger
	Ledger Pinger
}

// NewService constructs a new health service. Nil pingers report healthy.
func NewService(db, ledger Pinger) *Service {
	return &Service{DB: db, Ledger: ledger}
}

// Status probes each dependency with a short deadline.
func (s *Service) Status(ctx context.Context) map[string]bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := map[string]bool{"ok": true, "db": true, "ledger": true}
	if s.DB != nil {
		if err := s.DB.Ping(ctx); err != nil {
			out["db"] = false
			out["ok"] = false
		}
	}
	if s.Ledger != nil {
		if err := s.Ledger.Ping(ctx); err != nil {
			out["ledger"] = false
			out["ok"] = false
		}
	}
	return out
}
