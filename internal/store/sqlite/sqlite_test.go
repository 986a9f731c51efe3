package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dineshsuthar123/telecare-realtime/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID == 0 || created.Username != "alice" {
		t.Fatalf("unexpected user: %+v", created)
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("id mismatch: %d vs %d", byName.ID, created.ID)
	}

	if _, err := s.GetUserByUsername(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice", "hash2"); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestActivityRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	created, err := s.CreateActivity(ctx, &store.Activity{
		SubscriberID: user.ID,
		Kind:         "report",
		Title:        "Blood work",
		Description:  "Results available",
		Metadata:     `{"lab":"central"}`,
	})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if created.ID == 0 || created.OccurredAt.IsZero() {
		t.Fatalf("activity not stamped: %+v", created)
	}

	activities, err := s.ListActivities(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(activities) != 1 || activities[0].Kind != "report" || activities[0].Metadata != `{"lab":"central"}` {
		t.Fatalf("unexpected activities: %+v", activities)
	}
}

func TestListActivitiesScopedAndOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice, _ := s.CreateUser(ctx, "alice", "hash")
	bob, _ := s.CreateUser(ctx, "bob", "hash")

	for i := 0; i < 5; i++ {
		if _, err := s.CreateActivity(ctx, &store.Activity{
			SubscriberID: alice.ID,
			Kind:         "consultation",
			Title:        fmt.Sprintf("visit %d", i),
		}); err != nil {
			t.Fatalf("create activity %d: %v", i, err)
		}
	}
	if _, err := s.CreateActivity(ctx, &store.Activity{SubscriberID: bob.ID, Kind: "report"}); err != nil {
		t.Fatalf("create bob activity: %v", err)
	}

	activities, err := s.ListActivities(ctx, alice.ID, 3)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(activities) != 3 {
		t.Fatalf("limit not applied: got %d", len(activities))
	}
	// Newest first; same-second inserts fall back to id order.
	if activities[0].Title != "visit 4" {
		t.Fatalf("unexpected order: %+v", activities)
	}
	for _, a := range activities {
		if a.SubscriberID != alice.ID {
			t.Fatalf("activity leaked across subscribers: %+v", a)
		}
	}
}
