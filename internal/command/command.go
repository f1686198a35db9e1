package command

import (
	"encoding/json"
	"strings"
)

type Kind string

const (
	KindSetSession      Kind = "set_session"
	KindTogglePause     Kind = "toggle_pause"
	KindRescheduleBreak Kind = "reschedule_break"
	KindSummarizeDay    Kind = "summarize_day"
	KindNaturalLanguage Kind = "nl_command"
	KindUnknown         Kind = "unknown"

	// Interpreter-only kinds. The structured queue path never produces
	// these; they exist so free text like "break now" or "status" can map
	// onto an executable command.
	KindResume     Kind = "resume"
	KindForceBreak Kind = "force_break"
	KindShowStatus Kind = "show_status"
)

const (
	DefaultSessionMinutes = 45
	DefaultDelayMinutes   = 15
	DefaultSessionType    = "deep_work"
)

// Command is one decoded controller instruction. Only the fields relevant
// to the Kind are populated.
type Command struct {
	Kind Kind

	// set_session
	DurationMinutes int
	SessionType     string

	// reschedule_break
	DelayMinutes int

	// nl_command
	Text string
}

// envelope is the wire form of one queue line: a flat JSON object tagged by
// the "command" field.
type envelope struct {
	Command         string `json:"command"`
	DurationMinutes *int   `json:"duration_minutes"`
	SessionType     string `json:"type"`
	DelayMinutes    *int   `json:"delay_minutes"`
	Text            string `json:"text"`
}

// Decode parses one queue-file line into a Command. Anything that is not a
// JSON object carrying a known "command" value comes back as KindUnknown;
// the queue silently drops those.
func Decode(line string) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: KindUnknown}
	}

	var env envelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		return Command{Kind: KindUnknown}
	}

	switch Kind(env.Command) {
	case KindSetSession:
		cmd := Command{
			Kind:            KindSetSession,
			DurationMinutes: DefaultSessionMinutes,
			SessionType:     DefaultSessionType,
		}
		if env.DurationMinutes != nil && *env.DurationMinutes > 0 {
			cmd.DurationMinutes = *env.DurationMinutes
		}
		if env.SessionType != "" {
			cmd.SessionType = env.SessionType
		}
		return cmd
	case KindTogglePause:
		return Command{Kind: KindTogglePause}
	case KindRescheduleBreak:
		cmd := Command{Kind: KindRescheduleBreak, DelayMinutes: DefaultDelayMinutes}
		if env.DelayMinutes != nil && *env.DelayMinutes > 0 {
			cmd.DelayMinutes = *env.DelayMinutes
		}
		return cmd
	case KindSummarizeDay:
		return Command{Kind: KindSummarizeDay}
	case KindNaturalLanguage:
		return Command{Kind: KindNaturalLanguage, Text: env.Text}
	default:
		return Command{Kind: KindUnknown}
	}
}
