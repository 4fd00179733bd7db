package access

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a path does not lead to a value. Defaults
// supplied by the caller apply to this error only; resolution failures such
// as a missing mandatory value are never masked by a default.
var ErrNotFound = errors.New("config value not found")

// Frame is one hop of an error trace through placeholder indirections.
type Frame struct {
	// Path is the (possibly rewritten) path walked when the failure
	// passed through this hop.
	Path string
	// Placeholder is the canonical rendering of the placeholder being
	// resolved at this hop, if any.
	Placeholder string
	// File is the source document providing the value at this hop.
	File string
}

func (f Frame) String() string {
	s := fmt.Sprintf("at %q", f.Path)

	if f.Placeholder != "" {
		s += " resolving " + f.Placeholder
	}

	if f.File != "" {
		s += " in " + f.File
	}

	return s
}

// TraceError annotates an error with the hop it passed through. Nested
// lookups wrap their failures in one TraceError per indirection level, so
// the unwrap chain reads as a trace from the original access down to the
// failing placeholder.
type TraceError struct {
	Frame Frame
	Err   error
}

func (e *TraceError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Err, e.Frame)
}

func (e *TraceError) Unwrap() error {
	return e.Err
}

// Trace collects the frames of an error chain, outermost first.
func Trace(err error) []Frame {
	var frames []Frame

	for err != nil {
		var te *TraceError
		if !errors.As(err, &te) {
			break
		}

		frames = append(frames, te.Frame)
		err = te.Err
	}

	return frames
}
