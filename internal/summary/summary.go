// Package summary folds one day's activity records into a digest. It backs
// the summarize_day command and the read-only API; the raw JSONL files
// remain the record of truth.
package summary

import (
	"fmt"
	"strings"
	"time"

	"restly/internal/eventlog"
)

// Digest aggregates one day of activity.
type Digest struct {
	Day              string `json:"day"`
	BreaksSuggested  int    `json:"breaks_suggested"`
	BreaksCompleted  int    `json:"breaks_completed"`
	EyeCareBreaks    int    `json:"eye_care_breaks"`
	CustomBreaks     int    `json:"custom_breaks"`
	SessionsStarted  int    `json:"sessions_started"`
	SessionsEnded    int    `json:"sessions_ended"`
	DeepWorkMinutes  int    `json:"deep_work_minutes"`
	CommandsReceived int    `json:"commands_received"`
	PauseToggles     int    `json:"pause_toggles"`
	WorkMinutes      int    `json:"work_minutes"`

	// pointers so an empty day omits them instead of the zero time
	FirstEvent *time.Time `json:"first_event,omitempty"`
	LastEvent  *time.Time `json:"last_event,omitempty"`
}

// Compute folds the records in log order.
func Compute(day string, records []eventlog.Record) Digest {
	d := Digest{Day: day}
	for _, rec := range records {
		ts := rec.Timestamp
		if d.FirstEvent == nil {
			d.FirstEvent = &ts
		}
		d.LastEvent = &ts

		switch rec.EventType {
		case eventlog.TypeBreakShown:
			d.BreaksSuggested++
		case eventlog.TypeBreakCompleted:
			d.BreaksCompleted++
			if rec.EventData.BreakType != nil {
				switch *rec.EventData.BreakType {
				case eventlog.BreakEyeCare:
					d.EyeCareBreaks++
				case eventlog.BreakCustomMessage:
					d.CustomBreaks++
				}
			}
		case eventlog.TypeSessionStarted:
			d.SessionsStarted++
		case eventlog.TypeSessionEnded:
			d.SessionsEnded++
			if rec.EventData.DurationMinutes != nil {
				d.DeepWorkMinutes += *rec.EventData.DurationMinutes
			}
		case eventlog.TypeCommandReceived:
			d.CommandsReceived++
		case eventlog.TypePauseToggled:
			d.PauseToggles++
		}

		// the snapshot on the last record carries the running work total
		d.WorkMinutes = rec.State.TotalWorkMinutesToday
	}
	return d
}

// String renders the digest as popup text.
func (d Digest) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today: %d of %d breaks taken", d.BreaksCompleted, d.BreaksSuggested)
	if d.SessionsEnded > 0 {
		fmt.Fprintf(&b, "\n%d deep work session(s), %d min focused", d.SessionsEnded, d.DeepWorkMinutes)
	}
	fmt.Fprintf(&b, "\n%d min at the desk", d.WorkMinutes)
	if d.CommandsReceived > 0 {
		fmt.Fprintf(&b, "\n%d command(s) received", d.CommandsReceived)
	}
	return b.String()
}
