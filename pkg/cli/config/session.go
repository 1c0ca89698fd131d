package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/session"
	"github.com/urfave/cli/v3"
)

// MemorySession selects a store that is discarded on exit
const MemorySession = ":memory:"

// Session holds the location of the durable session store
type Session struct {
	Path string
}

// Flags returns CLI flags for session configuration
func (s *Session) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session-db",
			Usage:       "Session database path (default ~/.civicsnap/session.db, \":memory:\" for none)",
			Category:    "Session",
			Sources:     cli.EnvVars("CIVICSNAP_SESSION_DB"),
			Destination: &s.Path,
		},
	}
}

// ApplyProfile fills the path when it was not given on the command line
func (s *Session) ApplyProfile(p *Profile, isSet func(name string) bool) {
	if p.SessionDB != "" && !isSet("session-db") {
		s.Path = p.SessionDB
	}
}

// DefaultPath returns ~/.civicsnap/session.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to find home directory")
	}
	return filepath.Join(home, ".civicsnap", "session.db"), nil
}

// Configure opens the store and returns the session accessor over it.
// The caller closes the store.
func (s *Session) Configure(ctx context.Context) (*session.Manager, session.Store, error) {
	path := s.Path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, nil, err
		}
		path = p
	}

	var store session.Store
	if path == MemorySession {
		store = session.NewMemory()
	} else {
		db, err := session.NewSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		store = db
	}

	return session.NewManager(store), store, nil
}

// LogValue returns structured log value
func (s Session) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", s.Path),
	)
}
