package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the daemon's runtime settings. It is immutable after start;
// the scheduler and its collaborators only ever read it.
type Config struct {
	IntervalMinutes int    `yaml:"interval_minutes"`
	PopupSeconds    int    `yaml:"popup_seconds"`
	Message         string `yaml:"message"`
	EyeCare         bool   `yaml:"eye_care"`
	ActiveHours     Window `yaml:"active_hours"`

	// SummarySchedule is a standard cron expression for the automatic day
	// digest. Empty disables it.
	SummarySchedule string `yaml:"summary_schedule"`

	QueuePath   string `yaml:"queue_path"`
	ActivityDir string `yaml:"activity_dir"`
	ListenAddr  string `yaml:"listen_addr"`
}

// Default returns the settings used when no config file or flags override
// them.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		IntervalMinutes: 20,
		PopupSeconds:    5,
		Message:         "Time for a break!",
		EyeCare:         true,
		ActiveHours:     Window{Start: 8 * 60, End: 22 * 60},
		QueuePath:       filepath.Join(home, ".config", "restly", "commands", "queue.jsonl"),
		ActivityDir:     filepath.Join(home, ".config", "restly", "activity"),
		ListenAddr:      "127.0.0.1:7877",
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}
	return cfg, nil
}

// Interval is the regular break interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Window is a daily time-of-day range, stored as minutes since midnight.
// Start > End means the window wraps past midnight (e.g. 22:00-06:00).
type Window struct {
	Start int
	End   int
}

// ParseWindow parses the "HH:MM-HH:MM" form.
func ParseWindow(s string) (Window, error) {
	var sh, sm, eh, em int
	if _, err := fmt.Sscanf(s, "%2d:%2d-%2d:%2d", &sh, &sm, &eh, &em); err != nil {
		return Window{}, fmt.Errorf("invalid active-hours window %q: want HH:MM-HH:MM", s)
	}
	if sh < 0 || sh > 23 || eh < 0 || eh > 23 || sm < 0 || sm > 59 || em < 0 || em > 59 {
		return Window{}, fmt.Errorf("invalid active-hours window %q: time out of range", s)
	}
	return Window{Start: sh*60 + sm, End: eh*60 + em}, nil
}

// Contains reports whether t's local time-of-day falls inside the window.
// Both endpoints are inclusive. A wraparound window spans midnight; a window
// with equal endpoints is always active.
func (w Window) Contains(t time.Time) bool {
	cur := t.Hour()*60 + t.Minute()
	switch {
	case w.Start < w.End:
		return cur >= w.Start && cur <= w.End
	case w.Start > w.End:
		return cur >= w.Start || cur <= w.End
	default:
		return true
	}
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start/60, w.Start%60, w.End/60, w.End%60)
}

// UnmarshalYAML accepts the same "HH:MM-HH:MM" form used on the command line.
func (w *Window) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseWindow(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// MarshalYAML renders the window back in its string form.
func (w Window) MarshalYAML() (interface{}, error) {
	return w.String(), nil
}
