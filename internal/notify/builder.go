package notify

import (
	"fmt"
	"sort"
)

// DefaultLimit caps a snapshot when the caller passes no explicit limit.
const DefaultLimit = 20

type mapping struct {
	kind        string
	title       string
	message     string
	actionLabel string
	actionHref  string
}

var mappings = map[string]mapping{
	ActivityConsultation: {
		kind:        NotificationAppointment,
		title:       "Consultation update",
		message:     "There is an update on one of your consultations.",
		actionLabel: "View consultations",
		actionHref:  "/consultations",
	},
	ActivityEmergency: {
		kind:        NotificationAlert,
		title:       "Emergency notice",
		message:     "An emergency notice was filed on your account.",
		actionLabel: "Open dashboard",
		actionHref:  "/dashboard",
	},
	ActivityReport: {
		kind:        NotificationUpdate,
		title:       "New report available",
		message:     "A new report was added to your health records.",
		actionLabel: "View records",
		actionHref:  "/health-records",
	},
	ActivityPrescription: {
		kind:        NotificationReminder,
		title:       "Prescription update",
		message:     "One of your prescriptions was updated.",
		actionLabel: "View records",
		actionHref:  "/health-records",
	},
	ActivitySymptomCheck: {
		kind:        NotificationUpdate,
		title:       "Symptom check completed",
		message:     "Your symptom check results are ready.",
		actionLabel: "View results",
		actionHref:  "/symptom-checker",
	},
}

// BuildNotifications derives a sorted, capped snapshot from raw activity
// records. It is pure and total: every record produces exactly one payload,
// with unrecognized types handled like symptom checks, and the result depends
// only on the inputs.
func BuildNotifications(records []ActivityRecord, limit int) []Notification {
	if limit <= 0 {
		limit = DefaultLimit
	}

	kept := make([]ActivityRecord, 0, len(records))
	for _, rec := range records {
		if rec.isZero() {
			continue
		}
		kept = append(kept, rec)
	}

	// Newest first; records without a date sort as oldest. Stable so equal
	// dates keep their feed order.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.After(kept[j].Date)
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]Notification, 0, len(kept))
	for _, rec := range kept {
		out = append(out, buildOne(rec))
	}
	return out
}

func buildOne(rec ActivityRecord) Notification {
	m, ok := mappings[rec.Type]
	if !ok {
		m = mappings[ActivitySymptomCheck]
	}

	title := rec.Title
	if title == "" {
		title = m.title
	}

	message := rec.Description
	if message == "" {
		message = rec.Title
	}
	if message == "" {
		message = m.message
	}

	return Notification{
		ID:        stableID(rec),
		Type:      m.kind,
		Title:     title,
		Message:   message,
		Timestamp: rec.Date,
		Action:    &Action{Label: m.actionLabel, Href: m.actionHref},
	}
}

// stableID prefers the record's own identifier and falls back to a composite
// of type and timestamp, so the same record always derives the same id.
func stableID(rec ActivityRecord) string {
	if rec.ID != "" {
		return rec.ID
	}
	kind := rec.Type
	if kind == "" {
		kind = ActivitySymptomCheck
	}
	return fmt.Sprintf("%s-%d", kind, rec.Date.UnixMilli())
}
