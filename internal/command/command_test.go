package command

import "testing"

func TestDecodeStructuredCommands(t *testing.T) {
	cases := []struct {
		name string
		line string
		want Command
	}{
		{
			"session with fields",
			`{"command":"set_session","duration_minutes":60,"type":"deep_work"}`,
			Command{Kind: KindSetSession, DurationMinutes: 60, SessionType: "deep_work"},
		},
		{
			"session defaults",
			`{"command":"set_session"}`,
			Command{Kind: KindSetSession, DurationMinutes: 45, SessionType: "deep_work"},
		},
		{
			"toggle pause",
			`{"command":"toggle_pause"}`,
			Command{Kind: KindTogglePause},
		},
		{
			"reschedule with delay",
			`{"command":"reschedule_break","delay_minutes":30}`,
			Command{Kind: KindRescheduleBreak, DelayMinutes: 30},
		},
		{
			"reschedule default delay",
			`{"command":"reschedule_break"}`,
			Command{Kind: KindRescheduleBreak, DelayMinutes: 15},
		},
		{
			"summarize day",
			`{"command":"summarize_day"}`,
			Command{Kind: KindSummarizeDay},
		},
		{
			"natural language",
			`{"command":"nl_command","text":"pause for a bit"}`,
			Command{Kind: KindNaturalLanguage, Text: "pause for a bit"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decode(tc.line); got != tc.want {
				t.Errorf("Decode(%s) = %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"not json at all",
		`{"command":"make_coffee"}`,
		`{"duration_minutes":45}`,
		`{"command":`,
	} {
		if got := Decode(line); got.Kind != KindUnknown {
			t.Errorf("Decode(%q).Kind = %s, want unknown", line, got.Kind)
		}
	}
}

func TestDecodeIgnoresNonPositiveValues(t *testing.T) {
	got := Decode(`{"command":"set_session","duration_minutes":-5}`)
	if got.DurationMinutes != DefaultSessionMinutes {
		t.Errorf("negative duration should fall back to default, got %d", got.DurationMinutes)
	}
	got = Decode(`{"command":"reschedule_break","delay_minutes":0}`)
	if got.DelayMinutes != DefaultDelayMinutes {
		t.Errorf("zero delay should fall back to default, got %d", got.DelayMinutes)
	}
}
