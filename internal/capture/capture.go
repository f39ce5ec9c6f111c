package capture

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Capture represents a single spectral snapshot loaded from disk.
// It is immutable after load and may be discarded once accumulated.
type Capture struct {
	Path        string      // Source file the capture was loaded from
	DayID       int64       // Integer acquisition day (MJD truncated to integer)
	Frequencies []float64   // Frequency axis in Hz, shared across the batch
	Power       [][]float64 // Power matrix, channel x frequency bin
}

// Channels returns the antenna channel count of the capture.
func (c *Capture) Channels() int {
	return len(c.Power)
}

// Bins returns the frequency bin count of the capture.
func (c *Capture) Bins() int {
	return len(c.Frequencies)
}

// Loader loads one capture file into memory.
type Loader interface {
	Load(path string) (*Capture, error)
}

// ParseError reports capture metadata that could not be extracted from a
// file name.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing day-id from '%s': %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DayIDFromPath extracts the integer day-id embedded in a capture file name.
// Capture files are named '<day-id>_<rest>'; everything up to the first
// underscore of the base name must parse as a base-10 integer.
func DayIDFromPath(path string) (int64, error) {
	prefix, _, _ := strings.Cut(filepath.Base(path), "_")
	id, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, &ParseError{Path: path, Err: err}
	}
	return id, nil
}
