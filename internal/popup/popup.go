// Package popup holds the daemon-side adapters for the external popup
// collaborator. Rendering is fire-and-forget; the scheduler owns the
// display-time sleeps.
package popup

import (
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// Log writes popups to the structured log. Used as the fallback sink and
// in headless environments.
type Log struct {
	Logger zerolog.Logger
}

func (l Log) Show(message string, seconds int) {
	l.Logger.Info().Int("seconds", seconds).Str("message", message).Msg("popup")
}

// NotifySend renders popups through the desktop notification daemon via
// notify-send, falling back to Fallback when the binary is missing or the
// call fails.
type NotifySend struct {
	Logger   zerolog.Logger
	Fallback Log
}

func New(logger zerolog.Logger) NotifySend {
	return NotifySend{Logger: logger, Fallback: Log{Logger: logger}}
}

func (n NotifySend) Show(message string, seconds int) {
	bin, err := exec.LookPath("notify-send")
	if err != nil {
		n.Fallback.Show(message, seconds)
		return
	}
	// expire-time is in milliseconds
	cmd := exec.Command(bin, "--app-name=restly",
		fmt.Sprintf("--expire-time=%d", seconds*1000), "Restly", message)
	if err := cmd.Run(); err != nil {
		n.Logger.Warn().Err(err).Msg("notify-send failed")
		n.Fallback.Show(message, seconds)
	}
}
