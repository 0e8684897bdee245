package file_events

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hoepeyemi/fusee-sub001/events"

	"github.com/juju/fslock"
)

var _ events.Publisher = (*FileEvents)(nil)

const defaultLockFile = "/tmp/fusee_events_lock"

// FileEvents appends audit events to a JSON-lines file. The fslock guards
// the append against other local processes (the CLI tails the same file).
type FileEvents struct {
	lockFile *fslock.Lock

	dataFile *os.File
}

func countLines(r io.Reader) uint64 {
	var count uint64
	fileScanner := bufio.NewScanner(r)

	for fileScanner.Scan() {
		count++
	}

	return count
}

// NewFileEvents opens the append-only audit log.
// It takes two arguments: filename - path to a data file, lockFilename (optional) - path to a lock file
func NewFileEvents(filename string, lockFilename ...string) (*FileEvents, error) {
	var (
		fe  FileEvents
		err error
	)
	if len(lockFilename) > 0 {
		fe.lockFile = fslock.New(lockFilename[0])
	} else {
		fe.lockFile = fslock.New(defaultLockFile)
	}

	if fe.dataFile, err = os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644); err != nil {
		return nil, fmt.Errorf("failed to open a data file: %v", err)
	}
	return &fe, nil
}

func (fe *FileEvents) publish(event events.Event) error {
	if err := fe.lockFile.Lock(); err != nil {
		return fmt.Errorf("failed to lock a file: %v", err)
	}
	defer fe.lockFile.Unlock()

	if _, err := fe.dataFile.Seek(0, 0); err != nil { // otherwise countLines will return zero
		return fmt.Errorf("failed to seek a offset to the start of a data file: %v", err)
	}
	event.Offset = countLines(fe.dataFile)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal an event %v: %v", event, err)
	}

	if _, err = fmt.Fprintln(fe.dataFile, string(data)); err != nil {
		return fmt.Errorf("failed to write an event to a data file: %v", err)
	}
	return nil
}

func (fe *FileEvents) Publish(_ context.Context, evts ...events.Event) error {
	for _, event := range evts {
		if err := fe.publish(event); err != nil {
			return err
		}
	}
	return nil
}

// GetEvents returns events from the audit log starting at the given offset.
func (fe *FileEvents) GetEvents(offset uint64) ([]events.Event, error) {
	var evts []events.Event

	if _, err := fe.dataFile.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to seek a offset to the start of a data file: %v", err)
	}

	scanner := bufio.NewScanner(fe.dataFile)
	for scanner.Scan() {
		if offset > 0 {
			offset--
			continue
		}

		var event events.Event
		row := scanner.Bytes()
		if err := json.Unmarshal(row, &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal an event %s: %v", string(row), err)
		}
		evts = append(evts, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read a data file: %v", err)
	}
	return evts, nil
}

func (fe *FileEvents) Close() error {
	return fe.dataFile.Close()
}
