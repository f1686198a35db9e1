// Package scheduler owns the break/session/pause state machine and the
// daemon's single control loop. All state mutation happens on the loop
// goroutine; the mutex exists only so the read-only snapshot accessors can
// serve the event log and the HTTP surface.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"restly/internal/command"
	"restly/internal/config"
	"restly/internal/eventlog"
	"restly/internal/queue"
	"restly/internal/summary"
)

// Resuming from pause restarts the countdown with this fixed interval,
// not the configured one. See DESIGN.md.
const defaultResumeInterval = 20 * time.Minute

const defaultTickInterval = 5 * time.Second

// Popup renders one message to the user. Implementations return once the
// message is on screen; the scheduler itself sleeps out the display time,
// so a break sequence occupies the loop for its full duration.
type Popup interface {
	Show(message string, seconds int)
}

type Scheduler struct {
	cfg    config.Config
	queue  *queue.Queue
	events *eventlog.Logger
	popup  Popup
	log    zerolog.Logger

	tickEvery time.Duration
	now       func() time.Time
	sleep     func(time.Duration)

	summarySched  cron.Schedule
	nextSummaryAt time.Time

	mu                sync.Mutex
	paused            bool
	nextBreakAt       time.Time
	inDeepWork        bool
	deepWorkStartedAt time.Time
	deepWorkEndsAt    time.Time
}

// New wires a scheduler. The summary schedule is optional; an invalid cron
// expression is a configuration error.
func New(cfg config.Config, q *queue.Queue, events *eventlog.Logger, popup Popup, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cfg:       cfg,
		queue:     q,
		events:    events,
		popup:     popup,
		log:       log,
		tickEvery: defaultTickInterval,
		now:       time.Now,
		sleep:     time.Sleep,
	}
	if cfg.SummarySchedule != "" {
		sched, err := cron.ParseStandard(cfg.SummarySchedule)
		if err != nil {
			return nil, fmt.Errorf("invalid summary schedule %q: %w", cfg.SummarySchedule, err)
		}
		s.summarySched = sched
		s.nextSummaryAt = sched.Next(s.now())
	}
	s.nextBreakAt = s.now().Add(cfg.Interval())
	return s, nil
}

// Run drives the tick loop until the context is cancelled. Breaks execute
// inline, so while a routine plays the queue is not polled; pending
// commands are applied in file order on the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()

	s.log.Info().
		Dur("tick", s.tickEvery).
		Int("interval_minutes", s.cfg.IntervalMinutes).
		Str("active_hours", s.cfg.ActiveHours.String()).
		Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(s.now())
		}
	}
}

func (s *Scheduler) tick(now time.Time) {
	if _, err := s.queue.Drain(s.Apply); err != nil {
		s.log.Error().Err(err).Msg("drain command queue")
	}

	if s.summarySched != nil && !now.Before(s.nextSummaryAt) {
		s.summarizeDay(now)
		s.nextSummaryAt = s.summarySched.Next(now)
	}

	if !s.cfg.ActiveHours.Contains(now) {
		return
	}

	s.mu.Lock()
	paused, deep := s.paused, s.inDeepWork
	endsAt, startedAt := s.deepWorkEndsAt, s.deepWorkStartedAt
	breakAt := s.nextBreakAt
	s.mu.Unlock()

	if paused {
		return
	}
	// at most one break or session end per tick; a forward clock jump does
	// not cause a catch-up storm
	if deep {
		if !now.Before(endsAt) {
			s.endDeepWork(now, startedAt)
		}
		return
	}
	if !now.Before(breakAt) {
		s.runBreak()
	}
}

// Apply executes one decoded command against the scheduler state. The
// queue calls this for each line it drains, in file order.
func (s *Scheduler) Apply(cmd command.Command) {
	switch cmd.Kind {
	case command.KindSetSession:
		s.setSession(cmd.DurationMinutes, cmd.SessionType)
	case command.KindTogglePause:
		s.togglePause()
	case command.KindRescheduleBreak:
		s.reschedule(cmd.DelayMinutes)
	case command.KindSummarizeDay:
		s.summarizeDay(s.now())
	case command.KindNaturalLanguage:
		s.applyText(cmd.Text)
	default:
		s.log.Debug().Str("kind", string(cmd.Kind)).Msg("ignoring command")
	}
}

func (s *Scheduler) applyText(text string) {
	if strings.TrimSpace(text) == "" {
		s.popup.Show("Empty command received", 2)
		return
	}
	s.events.CommandReceived(text)

	cmd := command.Interpret(text)
	switch cmd.Kind {
	case command.KindRescheduleBreak:
		s.reschedule(cmd.DelayMinutes)
	case command.KindTogglePause:
		// free-text "pause" only pauses; the structured toggle_pause is the
		// true toggle
		s.mu.Lock()
		paused := s.paused
		s.mu.Unlock()
		if paused {
			s.popup.Show("Restly is already paused", 2)
		} else {
			s.togglePause()
		}
	case command.KindResume:
		s.mu.Lock()
		paused := s.paused
		s.mu.Unlock()
		if paused {
			s.togglePause()
		} else {
			s.popup.Show("Restly is already running", 2)
		}
	case command.KindSetSession:
		s.setSession(cmd.DurationMinutes, cmd.SessionType)
	case command.KindForceBreak:
		s.mu.Lock()
		s.nextBreakAt = s.now()
		s.mu.Unlock()
		s.popup.Show("Taking break now!", 3)
	case command.KindShowStatus:
		s.popup.Show(s.statusText(s.now()), 4)
	default:
		s.popup.Show("Unknown command: "+text+"\n\n"+command.HelpText, 6)
	}
}

func (s *Scheduler) setSession(durationMinutes int, sessionType string) {
	now := s.now()
	ends := now.Add(time.Duration(durationMinutes) * time.Minute)

	s.mu.Lock()
	s.inDeepWork = true
	s.deepWorkStartedAt = now
	s.deepWorkEndsAt = ends
	s.mu.Unlock()

	s.events.SessionStarted(sessionType, durationMinutes)
	s.popup.Show(fmt.Sprintf("Starting %d-minute deep work session!\nBreaks paused until %s",
		durationMinutes, ends.Format("15:04")), 5)
}

func (s *Scheduler) endDeepWork(now, startedAt time.Time) {
	s.popup.Show("Deep work session complete! Great job!", 5)

	// logged before the state resets so the snapshot still shows the session
	s.events.SessionEnded(eventlog.SessionDeepWork, int(now.Sub(startedAt).Minutes()))

	s.mu.Lock()
	s.inDeepWork = false
	s.nextBreakAt = now.Add(s.cfg.Interval())
	s.mu.Unlock()
}

func (s *Scheduler) togglePause() {
	s.mu.Lock()
	s.paused = !s.paused
	paused := s.paused
	if !paused {
		s.nextBreakAt = s.now().Add(defaultResumeInterval)
	}
	s.mu.Unlock()

	s.events.PauseToggled(paused)
	if paused {
		s.popup.Show("Restly paused\nBreaks disabled until resumed", 3)
	} else {
		s.popup.Show("Restly resumed\nBreaks re-enabled", 3)
	}
}

// reschedule pushes the next break out. Delays are additive: repeated
// reschedules accumulate rather than replace.
func (s *Scheduler) reschedule(delayMinutes int) {
	s.mu.Lock()
	s.nextBreakAt = s.nextBreakAt.Add(time.Duration(delayMinutes) * time.Minute)
	s.mu.Unlock()

	s.events.BreakRescheduled(delayMinutes)
	s.popup.Show(fmt.Sprintf("Break rescheduled by %d minutes", delayMinutes), 3)
}

func (s *Scheduler) runBreak() {
	if s.cfg.EyeCare {
		total := routineTotalSeconds()
		s.events.BreakShown(eventlog.BreakEyeCare, total)
		for _, step := range eyeCareRoutine {
			s.popup.Show(step.Message, step.Seconds)
			s.sleep(time.Duration(step.Seconds) * time.Second)
		}
		s.events.BreakCompleted(eventlog.BreakEyeCare, total, false)
	} else {
		secs := s.cfg.PopupSeconds
		s.events.BreakShown(eventlog.BreakCustomMessage, secs)
		s.popup.Show(s.cfg.Message, secs)
		s.sleep(time.Duration(secs) * time.Second)
		s.events.BreakCompleted(eventlog.BreakCustomMessage, secs, false)
	}

	s.mu.Lock()
	s.nextBreakAt = s.now().Add(s.cfg.Interval())
	s.mu.Unlock()
}

func (s *Scheduler) summarizeDay(now time.Time) {
	day := now.Format("2006-01-02")
	records, err := eventlog.ReadDay(s.cfg.ActivityDir, day)
	if err != nil {
		s.log.Error().Err(err).Str("day", day).Msg("read activity log for summary")
		s.popup.Show("Couldn't read today's activity log", 3)
		return
	}
	s.popup.Show(summary.Compute(day, records).String(), 6)
}

func (s *Scheduler) statusText(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.paused:
		return "Restly is paused\nResume to restart breaks"
	case s.inDeepWork:
		return fmt.Sprintf("Deep work session active\n%d minutes remaining",
			int(s.deepWorkEndsAt.Sub(now).Minutes()))
	default:
		return fmt.Sprintf("Next break in %d minutes",
			int(s.nextBreakAt.Sub(now).Minutes()))
	}
}

// Snapshot implements eventlog.StateSource.
func (s *Scheduler) Snapshot() eventlog.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return eventlog.Snapshot{
		Paused:             s.paused,
		InDeepWork:         s.inDeepWork,
		NextBreakInMinutes: int(s.nextBreakAt.Sub(s.now()).Minutes()),
	}
}

// Status is the richer view served by the HTTP API.
type Status struct {
	Paused             bool       `json:"paused"`
	InDeepWork         bool       `json:"in_deep_work"`
	ActiveNow          bool       `json:"active_now"`
	NextBreakAt        time.Time  `json:"next_break_at"`
	NextBreakInMinutes int        `json:"next_break_in_minutes"`
	DeepWorkStartedAt  *time.Time `json:"deep_work_started_at,omitempty"`
	DeepWorkEndsAt     *time.Time `json:"deep_work_ends_at,omitempty"`
}

func (s *Scheduler) Status() Status {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Paused:             s.paused,
		InDeepWork:         s.inDeepWork,
		ActiveNow:          s.cfg.ActiveHours.Contains(now),
		NextBreakAt:        s.nextBreakAt,
		NextBreakInMinutes: int(s.nextBreakAt.Sub(now).Minutes()),
	}
	if s.inDeepWork {
		started, ends := s.deepWorkStartedAt, s.deepWorkEndsAt
		st.DeepWorkStartedAt = &started
		st.DeepWorkEndsAt = &ends
	}
	return st
}
