package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// User represents an account in the system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Activity is one persisted entry of a subscriber's activity feed. Metadata
// is an opaque JSON bag the core never interprets.
type Activity struct {
	ID           int64
	SubscriberID int64
	Kind         string
	Title        string
	Description  string
	Metadata     string
	OccurredAt   time.Time
}

// UserStore provides user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// ActivityStore provides the activity feed read and write paths. The list
// call runs on every notification refresh tick, so it must stay cheap.
type ActivityStore interface {
	CreateActivity(ctx context.Context, a *Activity) (*Activity, error)
	ListActivities(ctx context.Context, subscriberID int64, limit int) ([]Activity, error)
}

// Store combines all persistence interfaces.
type Store interface {
	UserStore
	ActivityStore
	Close() error
}
