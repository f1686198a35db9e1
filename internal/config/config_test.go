package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	cases := []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{"08:00-22:00", Window{Start: 480, End: 1320}, false},
		{"22:00-06:00", Window{Start: 1320, End: 360}, false},
		{"00:00-23:59", Window{Start: 0, End: 1439}, false},
		{"8am-10pm", Window{}, true},
		{"25:00-06:00", Window{}, true},
		{"08:61-22:00", Window{}, true},
	}
	for _, tc := range cases {
		got, err := ParseWindow(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseWindow(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWindow(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseWindow(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func at(hour, min int) time.Time {
	return time.Date(2024, 3, 14, hour, min, 0, 0, time.Local)
}

func TestWindowContains(t *testing.T) {
	cases := []struct {
		window string
		t      time.Time
		want   bool
	}{
		{"08:00-22:00", at(12, 0), true},
		{"08:00-22:00", at(8, 0), true},
		{"08:00-22:00", at(22, 0), true},
		{"08:00-22:00", at(7, 59), false},
		{"08:00-22:00", at(22, 1), false},

		// wraparound spans midnight
		{"22:00-06:00", at(23, 30), true},
		{"22:00-06:00", at(2, 0), true},
		{"22:00-06:00", at(22, 0), true},
		{"22:00-06:00", at(6, 0), true},
		{"22:00-06:00", at(12, 0), false},
		{"22:00-06:00", at(21, 59), false},
	}
	for _, tc := range cases {
		w, err := ParseWindow(tc.window)
		if err != nil {
			t.Fatalf("ParseWindow(%q): %v", tc.window, err)
		}
		if got := w.Contains(tc.t); got != tc.want {
			t.Errorf("window %s Contains(%02d:%02d) = %v, want %v",
				tc.window, tc.t.Hour(), tc.t.Minute(), got, tc.want)
		}
	}
}

func TestWindowEqualEndpointsAlwaysActive(t *testing.T) {
	w := Window{Start: 600, End: 600}
	for _, tm := range []time.Time{at(0, 0), at(10, 0), at(23, 59)} {
		if !w.Contains(tm) {
			t.Errorf("degenerate window should contain %v", tm)
		}
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.IntervalMinutes != def.IntervalMinutes || cfg.Message != def.Message {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "interval_minutes: 30\nmessage: stretch\neye_care: false\nactive_hours: \"22:00-06:00\"\nsummary_schedule: \"0 21 * * *\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IntervalMinutes != 30 {
		t.Errorf("interval = %d, want 30", cfg.IntervalMinutes)
	}
	if cfg.Message != "stretch" {
		t.Errorf("message = %q", cfg.Message)
	}
	if cfg.EyeCare {
		t.Error("eye_care should be false")
	}
	if cfg.ActiveHours != (Window{Start: 1320, End: 360}) {
		t.Errorf("active hours = %+v", cfg.ActiveHours)
	}
	if cfg.SummarySchedule != "0 21 * * *" {
		t.Errorf("summary schedule = %q", cfg.SummarySchedule)
	}
	// untouched keys keep their defaults
	if cfg.PopupSeconds != 5 {
		t.Errorf("popup seconds = %d, want default 5", cfg.PopupSeconds)
	}
}
