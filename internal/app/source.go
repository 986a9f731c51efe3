package app

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/dineshsuthar123/telecare-realtime/internal/notify"
	"github.com/dineshsuthar123/telecare-realtime/internal/store"
)

// activitySource adapts the activity store to the notification stream's read
// path.
type activitySource struct {
	store store.ActivityStore
	limit int
}

func (s *activitySource) ActivitiesForSubscriber(ctx context.Context, subscriberID int64) ([]notify.ActivityRecord, error) {
	activities, err := s.store.ListActivities(ctx, subscriberID, s.limit)
	if err != nil {
		return nil, err
	}

	records := make([]notify.ActivityRecord, 0, len(activities))
	for _, a := range activities {
		records = append(records, toRecord(a))
	}
	return records, nil
}

func toRecord(a store.Activity) notify.ActivityRecord {
	var meta map[string]any
	if a.Metadata != "" {
		// Metadata is an opaque bag; a parse failure just means no extras.
		_ = json.Unmarshal([]byte(a.Metadata), &meta)
	}
	return notify.ActivityRecord{
		ID:          strconv.FormatInt(a.ID, 10),
		Type:        a.Kind,
		Date:        a.OccurredAt,
		Title:       a.Title,
		Description: a.Description,
		Meta:        meta,
	}
}
