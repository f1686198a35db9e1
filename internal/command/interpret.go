package command

import (
	"strconv"
	"strings"
)

// Interpret maps one line of free text onto a Command using keyword
// matching. The first matching group wins; overlapping input (say, both
// "pause" and "status") resolves to whichever group is tested first.
// Unmatched text yields KindUnknown, which the scheduler answers with a
// help popup.
func Interpret(text string) Command {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "reschedule", "delay", "postpone"):
		return Command{Kind: KindRescheduleBreak, DelayMinutes: extractMinutes(lower, DefaultDelayMinutes)}
	case containsAny(lower, "pause", "stop"):
		return Command{Kind: KindTogglePause}
	case containsAny(lower, "resume", "start", "continue"):
		return Command{Kind: KindResume}
	case containsAny(lower, "deep work", "focus", "session"):
		return Command{
			Kind:            KindSetSession,
			DurationMinutes: extractMinutes(lower, DefaultSessionMinutes),
			SessionType:     DefaultSessionType,
		}
	case strings.Contains(lower, "break") && strings.Contains(lower, "now"):
		return Command{Kind: KindForceBreak}
	case containsAny(lower, "status", "how", "what"):
		return Command{Kind: KindShowStatus}
	default:
		return Command{Kind: KindUnknown, Text: text}
	}
}

// HelpText lists the recognized keyword patterns. Shown when free text
// matches none of them.
const HelpText = "Try these keywords:\n" +
	"- 'reschedule break' or 'delay 30 minutes'\n" +
	"- 'pause' or 'stop'\n" +
	"- 'resume' or 'start'\n" +
	"- 'deep work 45 minutes'\n" +
	"- 'break now'\n" +
	"- 'status'"

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// extractMinutes finds the first digit run in s and converts it to minutes
// using the unit word that follows it, if any. Seconds round up to a whole
// minute; a bare number is taken as minutes already.
func extractMinutes(s string, fallback int) int {
	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return fallback
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return fallback
	}

	rest := s[end:]
	switch {
	case containsAny(rest, "minute", "min"):
		return n
	case containsAny(rest, "hour", "hr"):
		return n * 60
	case containsAny(rest, "second", "sec"):
		return (n + 59) / 60
	default:
		return n
	}
}
