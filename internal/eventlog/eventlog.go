// Package eventlog appends one JSON record per scheduling decision to a
// per-day activity file. The files are the daemon's only persisted record;
// external summarizers and dashboards consume them, the daemon itself only
// ever reads them back for the day digest.
package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const dayFormat = "2006-01-02"

// Logger writes the daily activity log. Each record is an independent
// open-append-close so a crash never loses earlier records. A write failure
// is reported and the record dropped; gaps are accepted.
type Logger struct {
	mu          sync.Mutex
	dir         string
	log         zerolog.Logger
	source      StateSource
	now         func() time.Time
	day         string
	breaksToday int
	workMinutes int
	dayOpenedAt time.Time
}

// New prepares the activity directory and opens the logical log for the
// current local date.
func New(dir string, log zerolog.Logger) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create activity dir: %w", err)
	}
	l := &Logger{dir: dir, log: log, now: time.Now}
	l.openDay(l.now())
	return l, nil
}

// SetSource installs the scheduler's read-only snapshot accessor. Records
// written before this carry a zero snapshot.
func (l *Logger) SetSource(s StateSource) {
	l.mu.Lock()
	l.source = s
	l.mu.Unlock()
}

// Path returns the current day's log file path.
func (l *Logger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return DayPath(l.dir, l.day)
}

// DayPath names the activity file for one local date.
func DayPath(dir, day string) string {
	return filepath.Join(dir, "activity_"+day+".jsonl")
}

func (l *Logger) openDay(now time.Time) {
	l.day = now.Format(dayFormat)
	l.breaksToday = 0
	l.workMinutes = 0
	l.dayOpenedAt = now
}

func (l *Logger) BreakShown(breakType string, durationSeconds int) {
	l.append(TypeBreakShown, EventData{
		BreakType:       strPtr(breakType),
		DurationSeconds: intPtr(durationSeconds),
	})
}

func (l *Logger) BreakCompleted(breakType string, durationSeconds int, userDismissed bool) {
	l.append(TypeBreakCompleted, EventData{
		BreakType:       strPtr(breakType),
		DurationSeconds: intPtr(durationSeconds),
		UserDismissed:   boolPtr(userDismissed),
	})
}

func (l *Logger) SessionStarted(sessionType string, durationMinutes int) {
	l.append(TypeSessionStarted, EventData{
		SessionType:     strPtr(sessionType),
		DurationMinutes: intPtr(durationMinutes),
	})
}

func (l *Logger) SessionEnded(sessionType string, actualMinutes int) {
	l.append(TypeSessionEnded, EventData{
		SessionType:     strPtr(sessionType),
		DurationMinutes: intPtr(actualMinutes),
	})
}

func (l *Logger) PauseToggled(paused bool) {
	l.append(TypePauseToggled, EventData{IsPaused: boolPtr(paused)})
}

func (l *Logger) BreakRescheduled(delayMinutes int) {
	l.append(TypeBreakRescheduled, EventData{DelayMinutes: intPtr(delayMinutes)})
}

func (l *Logger) CommandReceived(text string) {
	l.append(TypeCommandReceived, EventData{CommandText: strPtr(text)})
}

func (l *Logger) AppStarted() { l.append(TypeAppStarted, EventData{}) }
func (l *Logger) AppStopped() { l.append(TypeAppStopped, EventData{}) }

func (l *Logger) append(eventType Type, data EventData) {
	l.mu.Lock()
	now := l.now()
	if day := now.Format(dayFormat); day != l.day {
		// new calendar day: rotate the file and reset the counters
		l.openDay(now)
	}

	// counters advance after the rollover check so a break completed just
	// past midnight lands on the new day
	switch eventType {
	case TypeBreakCompleted:
		l.breaksToday++
	case TypeSessionEnded:
		if data.DurationMinutes != nil {
			l.workMinutes += *data.DurationMinutes
		}
	}

	rec := Record{
		ID:        "evt_" + uuid.NewString(),
		Timestamp: now.UTC().Truncate(time.Second),
		EventType: eventType,
		EventData: data,
		State:     l.systemState(now),
	}
	path := DayPath(l.dir, l.day)
	l.mu.Unlock()

	line, err := json.Marshal(rec)
	if err != nil {
		l.log.Error().Err(err).Str("event_type", string(eventType)).Msg("encode activity record")
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.log.Error().Err(err).Str("path", path).Msg("open activity log")
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		l.log.Error().Err(err).Str("path", path).Msg("append activity record")
	}
}

func (l *Logger) systemState(now time.Time) SystemState {
	var snap Snapshot
	if l.source != nil {
		snap = l.source.Snapshot()
	}
	return SystemState{
		IsPaused:              snap.Paused,
		InDeepWorkSession:     snap.InDeepWork,
		NextBreakInMinutes:    snap.NextBreakInMinutes,
		TotalBreaksToday:      l.breaksToday,
		TotalWorkMinutesToday: l.workMinutes + int(now.Sub(l.dayOpenedAt).Minutes()),
	}
}

// ReadDay decodes every record in one day's activity file. A missing file
// yields an empty slice: no activity that day.
func ReadDay(dir, day string) ([]Record, error) {
	f, err := os.Open(DayPath(dir, day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return records, fmt.Errorf("decode activity record: %w", err)
		}
		records = append(records, rec)
	}
	return records, sc.Err()
}
