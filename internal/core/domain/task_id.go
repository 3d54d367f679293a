// Package domain contains the core domain models of the task registry.
package domain

import (
	"regexp"
	"strings"
	"unique"

	"go.trai.ch/zerr"
)

// Separator joins the namespace segments of a task identifier.
const Separator = ":"

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// TaskID identifies a task by its fully qualified, colon-separated name.
// It wraps an interned handle so identifiers compare by value and are cheap
// to use as map keys.
type TaskID struct {
	h unique.Handle[string]
}

// NewTaskID joins the given segments into a TaskID without validation.
// Use ParseTaskID for names coming from user input.
func NewTaskID(segments ...string) TaskID {
	return TaskID{h: unique.Make(strings.Join(segments, Separator))}
}

// ParseTaskID validates name and returns its TaskID.
// Every segment must be non-empty and contain only letters, digits, '_', '.' or '-'.
func ParseTaskID(name string) (TaskID, error) {
	if name == "" {
		return TaskID{}, zerr.With(zerr.Wrap(ErrInvalidTaskName, "empty name"), "task", name)
	}
	for _, seg := range strings.Split(name, Separator) {
		if !segmentPattern.MatchString(seg) {
			return TaskID{}, zerr.With(zerr.With(zerr.Wrap(ErrInvalidTaskName, name), "task", name), "segment", seg)
		}
	}
	return NewTaskID(name), nil
}

// MustParseTaskID is like ParseTaskID but panics on invalid names.
// It is intended for identifiers that are compile-time constants.
func MustParseTaskID(name string) TaskID {
	id, err := ParseTaskID(name)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the fully qualified name.
func (id TaskID) String() string {
	var zero unique.Handle[string]
	if id.h == zero {
		return ""
	}
	return id.h.Value()
}

// IsZero reports whether id is the zero TaskID.
func (id TaskID) IsZero() bool {
	var zero unique.Handle[string]
	return id.h == zero
}

// Segments returns the colon-separated parts of the identifier.
func (id TaskID) Segments() []string {
	if id.IsZero() {
		return nil
	}
	return strings.Split(id.String(), Separator)
}

// Namespace returns the identifier without its last segment.
// The namespace of a top-level task is the zero TaskID.
func (id TaskID) Namespace() TaskID {
	s := id.String()
	i := strings.LastIndex(s, Separator)
	if i < 0 {
		return TaskID{}
	}
	return NewTaskID(s[:i])
}

// Child returns the identifier of name nested under id.
func (id TaskID) Child(name ...string) TaskID {
	if id.IsZero() {
		return NewTaskID(name...)
	}
	return NewTaskID(append([]string{id.String()}, name...)...)
}

// MarshalText implements encoding.TextMarshaler.
func (id TaskID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// The text is validated like ParseTaskID.
func (id *TaskID) UnmarshalText(text []byte) error {
	parsed, err := ParseTaskID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// TaskIDs converts names into identifiers, validating each.
func TaskIDs(names []string) ([]TaskID, error) {
	ids := make([]TaskID, 0, len(names))
	for _, name := range names {
		id, err := ParseTaskID(name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
