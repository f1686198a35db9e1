// Package queue reads the command mailbox written by the external
// controller. The file is line-delimited JSON, one command per line; the
// daemon is the only reader and resets the file after a successful drain.
package queue

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"restly/internal/command"
)

type Queue struct {
	path string
	log  zerolog.Logger
}

func New(path string, log zerolog.Logger) *Queue {
	return &Queue{path: path, log: log}
}

func (q *Queue) Path() string { return q.path }

// Drain reads every pending line, dispatching each decodable command in
// file order, and returns how many were dispatched. If at least one command
// was dispatched the consumed prefix is removed: when nothing was appended
// during the drain the file is truncated in place through the same
// descriptor, so a writer holding an open append handle keeps a live file;
// when the file grew mid-drain the unread tail is carried into a temp file
// that is renamed over the path, so those lines survive for the next drain.
// A drain that dispatches nothing leaves the file untouched. An absent file
// means no commands and is not an error.
//
// There is no locking against the writer: a line appended mid-read is
// either seen whole or not at all, and a crash between dispatch and reset
// re-delivers the same commands on the next drain.
func (q *Queue) Drain(dispatch func(command.Command)) (int, error) {
	f, err := os.OpenFile(q.path, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open queue file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return 0, fmt.Errorf("read queue file: %w", err)
	}

	processed := 0
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd := command.Decode(line)
		if cmd.Kind == command.KindUnknown {
			q.log.Debug().Str("line", line).Msg("dropping unrecognized command line")
			continue
		}
		dispatch(cmd)
		processed++
	}

	if processed > 0 {
		if err := q.reset(f, int64(len(raw))); err != nil {
			return processed, fmt.Errorf("reset queue file: %w", err)
		}
	}
	return processed, nil
}

// reset clears the consumed prefix. Unrecognized lines from the same batch
// are discarded along with the processed ones; lines appended after the
// read are not consumed and must survive the reset.
func (q *Queue) reset(f *os.File, consumed int64) error {
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if fi.Size() <= consumed {
		// no tail; truncating the inode keeps a writer's open append
		// handle pointed at the live file
		return f.Truncate(0)
	}

	tail := make([]byte, fi.Size()-consumed)
	if _, err := f.ReadAt(tail, consumed); err != nil {
		return err
	}
	dir := filepath.Dir(q.path)
	tmp, err := os.CreateTemp(dir, ".queue-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(tail); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, q.path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
