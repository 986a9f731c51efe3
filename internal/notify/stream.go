package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Source is the read path into the subscriber's activity feed. It is invoked
// on every refresh tick, so implementations should be cheap to call.
type Source interface {
	ActivitiesForSubscriber(ctx context.Context, subscriberID int64) ([]ActivityRecord, error)
}

// Sink receives the frames of one subscriber's push channel. A non-nil error
// from any method ends the stream; everything a sink does happens on the
// single goroutine running the stream.
type Sink interface {
	// PushSnapshot delivers a full notification snapshot.
	PushSnapshot(notifications []Notification) error
	// Heartbeat delivers a keep-alive frame carrying no content.
	Heartbeat() error
	// PushError reports a per-tick failure, best effort.
	PushError(message string) error
}

// StreamConfig tunes one subscriber stream. Zero values pick the defaults.
type StreamConfig struct {
	HeartbeatInterval time.Duration
	RefreshInterval   time.Duration
	FetchTimeout      time.Duration
	Limit             int
}

func (c StreamConfig) withDefaults() StreamConfig {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 15 * time.Second
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 12 * time.Second
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 5 * time.Second
	}
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	return c
}

// Streamer runs notification streams, one call to Run per subscriber. Streams
// share nothing but the read-only source, so one subscriber's failures never
// touch another.
//
// Each stream is a fixed-interval poll dressed up as push. That is fine for
// modest subscriber counts; a deployment with many thousands of subscribers
// would want a real change feed (message bus) in front of this instead.
type Streamer struct {
	source Source
	cfg    StreamConfig
	log    *zerolog.Logger
}

// NewStreamer builds a streamer over the given activity source.
func NewStreamer(source Source, cfg StreamConfig, logger *zerolog.Logger) *Streamer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Streamer{source: source, cfg: cfg.withDefaults(), log: logger}
}

// Run drives one subscriber's stream until ctx is cancelled or the sink
// fails. Heartbeat and refresh run on independent tickers so a slow fetch
// never delays a keep-alive. Returns nil on cancellation.
func (s *Streamer) Run(ctx context.Context, subscriberID int64, sink Sink) error {
	// Initial snapshot, best effort: a fetch failure here is reported but
	// does not kill the channel.
	var lastIDs map[string]struct{}
	if snapshot, err := s.snapshot(ctx, subscriberID); err != nil {
		s.log.Warn().Err(err).Int64("subscriber", subscriberID).Msg("initial snapshot failed")
		_ = sink.PushError("failed to load notifications")
	} else {
		if err := sink.PushSnapshot(snapshot); err != nil {
			return err
		}
		lastIDs = idSet(snapshot)
	}

	heartbeat := time.NewTicker(s.cfg.HeartbeatInterval)
	defer heartbeat.Stop()
	refresh := time.NewTicker(s.cfg.RefreshInterval)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			if err := sink.Heartbeat(); err != nil {
				return err
			}
		case <-refresh.C:
			snapshot, err := s.snapshot(ctx, subscriberID)
			if err != nil {
				// Per-tick isolation: report and keep both tickers alive.
				s.log.Warn().Err(err).Int64("subscriber", subscriberID).Msg("refresh tick failed")
				_ = sink.PushError("failed to refresh notifications")
				continue
			}
			if !changed(lastIDs, snapshot) {
				continue
			}
			if err := sink.PushSnapshot(snapshot); err != nil {
				return err
			}
			lastIDs = idSet(snapshot)
		}
	}
}

func (s *Streamer) snapshot(ctx context.Context, subscriberID int64) ([]Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	records, err := s.source.ActivitiesForSubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	return BuildNotifications(records, s.cfg.Limit), nil
}

// changed reports whether the snapshot's id-set differs from the last pushed
// one. A size difference or any unseen id counts as a change.
func changed(last map[string]struct{}, next []Notification) bool {
	if last == nil {
		return true
	}
	if len(last) != len(next) {
		return true
	}
	for _, n := range next {
		if _, ok := last[n.ID]; !ok {
			return true
		}
	}
	return false
}

func idSet(notifications []Notification) map[string]struct{} {
	ids := make(map[string]struct{}, len(notifications))
	for _, n := range notifications {
		ids[n.ID] = struct{}{}
	}
	return ids
}
