package notify

import "time"

// Activity type tags as supplied by the feed. Anything else is treated like a
// symptom check when building notifications.
const (
	ActivityConsultation = "consultation"
	ActivityEmergency    = "emergency"
	ActivityReport       = "report"
	ActivityPrescription = "prescription"
	ActivitySymptomCheck = "symptom_check"
)

// ActivityRecord is one raw entry from a subscriber's activity feed. It is
// immutable from this package's perspective.
type ActivityRecord struct {
	ID          string
	Type        string
	Date        time.Time // zero when the feed has no timestamp
	Title       string
	Description string
	Meta        map[string]any
}

func (r ActivityRecord) isZero() bool {
	return r.ID == "" && r.Type == "" && r.Date.IsZero() && r.Title == "" && r.Description == ""
}

// Notification types surfaced to clients.
const (
	NotificationAppointment = "appointment"
	NotificationReminder    = "reminder"
	NotificationAlert       = "alert"
	NotificationUpdate      = "update"
)

// Action is a client-side navigation hint attached to a notification.
type Action struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Notification is one derived payload. ID is stable across repeated
// derivations of the same activity record, which is what lets the stream
// detect "no change" between refresh ticks.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Action    *Action   `json:"action,omitempty"`
}
