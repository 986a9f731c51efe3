package http

import (
	"context"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dineshsuthar123/telecare-realtime/internal/auth"
	"github.com/dineshsuthar123/telecare-realtime/internal/config"
	"github.com/dineshsuthar123/telecare-realtime/internal/core"
	"github.com/dineshsuthar123/telecare-realtime/internal/notify"
	"github.com/dineshsuthar123/telecare-realtime/internal/store"
	"github.com/dineshsuthar123/telecare-realtime/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with the schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store, jwtSecret string) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return auth.NewService(st, jwtConfig)
}

type testSource struct {
	store store.ActivityStore
}

func (s *testSource) ActivitiesForSubscriber(ctx context.Context, subscriberID int64) ([]notify.ActivityRecord, error) {
	activities, err := s.store.ListActivities(ctx, subscriberID, 20)
	if err != nil {
		return nil, err
	}
	records := make([]notify.ActivityRecord, 0, len(activities))
	for _, a := range activities {
		records = append(records, notify.ActivityRecord{
			ID:          strconv.FormatInt(a.ID, 10),
			Type:        a.Kind,
			Date:        a.OccurredAt,
			Title:       a.Title,
			Description: a.Description,
		})
	}
	return records, nil
}

// startTestServer spins up the full HTTP surface over an in-memory store with
// fast stream intervals.
func startTestServer(t *testing.T) (*httptest.Server, store.Store, *auth.Service) {
	t.Helper()

	st := createTestStore(t)
	authService := createTestAuthService(t, st, "test-secret-change-me")

	hub := core.NewHub(core.NewRegistry(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	streamer := notify.NewStreamer(&testSource{store: st}, notify.StreamConfig{
		HeartbeatInterval: 50 * time.Millisecond,
		RefreshInterval:   30 * time.Millisecond,
		FetchTimeout:      time.Second,
		Limit:             20,
	}, nil)

	disabledLogger := zerolog.Nop()
	server := NewServer(hub, authService, st, streamer, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st, authService
}
