package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/civicsnap/pkg/cli/config"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

func TestLoggerConfigure(t *testing.T) {
	l := config.Logger{Level: "debug", Format: "json"}
	logger, err := l.Configure()
	gt.NoError(t, err)
	gt.V(t, logger).NotNil()

	bad := config.Logger{Level: "verbose"}
	_, err = bad.Configure()
	gt.Error(t, err)

	badFormat := config.Logger{Level: "info", Format: "xml"}
	_, err = badFormat.Configure()
	gt.Error(t, err)
}

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o600)).Required()
	return path
}

func TestProfile(t *testing.T) {
	t.Run("empty path is allowed", func(t *testing.T) {
		var p config.Profile
		gt.NoError(t, p.Load())
		gt.Equal(t, p.APIURL, "")
	})

	t.Run("values are loaded", func(t *testing.T) {
		p := config.Profile{Path: writeProfile(t, `
api_url: https://civic.example.com/api
timeout: 45s
session_db: /tmp/civic.db
toast_duration: 5s
`)}
		gt.NoError(t, p.Load()).Required()
		gt.Equal(t, p.APIURL, "https://civic.example.com/api")
		gt.Equal(t, p.Timeout, 45*time.Second)
		gt.Equal(t, p.ToastDuration, 5*time.Second)
		gt.Equal(t, p.SessionDB, "/tmp/civic.db")
	})

	t.Run("missing file", func(t *testing.T) {
		p := config.Profile{Path: filepath.Join(t.TempDir(), "nope.yaml")}
		gt.Error(t, p.Load())
	})

	t.Run("broken yaml", func(t *testing.T) {
		p := config.Profile{Path: writeProfile(t, "api_url: [")}
		gt.Error(t, p.Load())
	})

	t.Run("flags win over profile", func(t *testing.T) {
		p := &config.Profile{APIURL: "https://profile.example.com/api", Timeout: time.Minute}
		api := config.API{BaseURL: "http://flag.example.com/api", Timeout: 10 * time.Second}
		api.ApplyProfile(p, func(name string) bool { return name == "api-url" })
		gt.Equal(t, api.BaseURL, "http://flag.example.com/api")
		gt.Equal(t, api.Timeout, time.Minute)
	})
}

func TestAPIConfigure(t *testing.T) {
	ctx := context.Background()
	s := config.Session{Path: config.MemorySession}
	sess, store, err := s.Configure(ctx)
	gt.NoError(t, err).Required()
	defer store.Close()

	api := config.API{BaseURL: "http://localhost:5000/api", Timeout: time.Second}
	c, err := api.Configure(sess)
	gt.NoError(t, err)
	gt.Equal(t, c.BaseURL(), "http://localhost:5000/api")

	for _, bad := range []config.API{
		{BaseURL: "localhost:5000", Timeout: time.Second},
		{BaseURL: "ftp://example.com", Timeout: time.Second},
		{BaseURL: "http://localhost:5000/api"},
	} {
		_, err := bad.Configure(sess)
		gt.Error(t, err)
	}
}

func TestSessionConfigure(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	s := config.Session{Path: path}

	sess, store, err := s.Configure(ctx)
	gt.NoError(t, err).Required()
	gt.NoError(t, sess.Save(ctx, &model.LoginResult{Name: "Asha", Role: types.RoleCitizen, Token: "opaque"}))
	gt.NoError(t, store.Close())

	sess, store, err = s.Configure(ctx)
	gt.NoError(t, err).Required()
	defer store.Close()
	gt.Equal(t, sess.Current(ctx).Name, "Asha")
}

func TestNotifyConfigure(t *testing.T) {
	n := config.Notify{Duration: time.Second}
	bus, display := n.Configure(os.Stdout)
	gt.V(t, bus).NotNil()
	gt.V(t, display).NotNil()
	bus.Close()
	gt.NoError(t, display.Run(context.Background()))
}

func TestSandboxOptions(t *testing.T) {
	s := config.Sandbox{Addr: "127.0.0.1:0", AdminName: "A", AdminEmail: "a@example.com", AdminPassword: "secret1"}
	gt.A(t, s.Options()).Length(3)

	s.TokenSecret = "k"
	s.PublicURL = "https://civic.example.com"
	gt.A(t, s.Options()).Length(5)
}
