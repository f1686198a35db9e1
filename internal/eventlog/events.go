package eventlog

import "time"

// Type identifies one kind of activity record.
type Type string

const (
	TypeBreakShown       Type = "break_shown"
	TypeBreakCompleted   Type = "break_completed"
	TypeSessionStarted   Type = "session_started"
	TypeSessionEnded     Type = "session_ended"
	TypePauseToggled     Type = "pause_toggled"
	TypeBreakRescheduled Type = "break_rescheduled"
	TypeCommandReceived  Type = "command_received"
	TypeAppStarted       Type = "app_started"
	TypeAppStopped       Type = "app_stopped"
)

const (
	BreakEyeCare       = "eye_care"
	BreakCustomMessage = "custom_message"

	SessionDeepWork = "deep_work"
)

// Record is one line of the daily activity log.
type Record struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	EventType Type        `json:"event_type"`
	EventData EventData   `json:"event_data"`
	State     SystemState `json:"system_state"`
}

// EventData is a superset of the per-kind payload fields. Each event type
// populates only its own; the rest stay nil and are omitted from the JSON.
type EventData struct {
	BreakType       *string `json:"break_type,omitempty"`
	DurationSeconds *int    `json:"duration_seconds,omitempty"`
	UserDismissed   *bool   `json:"user_dismissed,omitempty"`

	SessionType     *string `json:"session_type,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`

	IsPaused *bool `json:"is_paused,omitempty"`

	DelayMinutes *int `json:"delay_minutes,omitempty"`

	CommandText *string `json:"command_text,omitempty"`
}

// SystemState is the scheduling snapshot embedded in every record for
// later analytics. It is advisory; the scheduler's in-memory state stays
// the source of truth.
type SystemState struct {
	IsPaused              bool `json:"is_paused"`
	InDeepWorkSession     bool `json:"in_deep_work_session"`
	NextBreakInMinutes    int  `json:"next_break_in_minutes"`
	TotalBreaksToday      int  `json:"total_breaks_today"`
	TotalWorkMinutesToday int  `json:"total_work_minutes_today"`
}

// Snapshot is what the scheduler exposes for embedding into records.
type Snapshot struct {
	Paused             bool
	InDeepWork         bool
	NextBreakInMinutes int
}

// StateSource is the read-only accessor the scheduler implements. The
// logger never touches scheduler state directly.
type StateSource interface {
	Snapshot() Snapshot
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
