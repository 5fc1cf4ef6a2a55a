// Package watcher reports changes to a single file on disk.
//
// The file's parent directory is watched rather than the file itself, so
// editors that save by writing a temporary file and renaming it over the
// original are still seen as a change. Bursts of events are coalesced by a
// Debouncer before the handler runs.
package watcher

import (
	"errors"
	"strings"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrPathNotExist = errors.New("path does not exist")
	ErrIsDirectory  = errors.New("path is a directory")
	ErrNilHandler   = errors.New("handler is nil")
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

// DefaultOps is the set of operations that trigger the handler by default.
const DefaultOps = OpCreate | OpWrite

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// String returns the operation names joined by "|".
func (op Op) String() string {
	if op == 0 {
		return "NONE"
	}
	var parts []string
	for _, n := range opNames {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents a change to the watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op holds every operation seen since the last delivered event.
	Op Op

	// Timestamp is when the most recent operation was seen.
	Timestamp time.Time
}

// Handler is called once per debounced event.
type Handler func(event Event)

// Stats provides watcher counters.
type Stats struct {
	// Events is the number of raw events seen for the file.
	Events int64

	// Deliveries is the number of times the handler ran.
	Deliveries int64

	// Errors is the number of errors reported by the backend.
	Errors int64
}
