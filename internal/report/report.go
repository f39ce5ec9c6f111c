// Package report writes the flat-text artifacts of a flagging run: the
// bad-capture list, the antenna flag file and the stdout summary.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jaycedowell/lwa-sky-survey/internal/analysis"
)

const (
	BadCapturesFile  = "bad_captures.txt"
	AntennaFlagsFile = "antenna_flags.txt"
)

// Emitter writes run artifacts into a single output directory.
type Emitter struct {
	Dir string
	Out io.Writer // Destination for the summary block, stdout by default
}

func NewEmitter(dir string) *Emitter {
	return &Emitter{Dir: dir, Out: os.Stdout}
}

// WriteBadCaptures writes the flagged capture paths, one per line, grouped
// by day in the order the groups were analyzed. Any previous file is
// removed first, and the file is created even when no group has outliers,
// so a clean run leaves an empty list behind.
func (e *Emitter) WriteBadCaptures(groups []analysis.TrendGroup) (err error) {
	path := filepath.Join(e.Dir, BadCapturesFile)
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale '%s': %w", path, err)
	}

	for _, group := range groups {
		if err = appendLines(path, group.Outliers()); err != nil {
			return fmt.Errorf("writing '%s': %w", path, err)
		}
	}
	return nil
}

func appendLines(path string, points []analysis.TrendPoint) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer closeWithError(f, &err)

	for _, p := range points {
		if _, err = fmt.Fprintln(f, p.Path); err != nil {
			return err
		}
	}
	return nil
}

// WriteAntennaFlags persists the 0-based indices of every channel whose
// final status is not GOOD, in ascending order, each terminated by a comma.
func (e *Emitter) WriteAntennaFlags(status []analysis.Status) (err error) {
	f, err := os.Create(filepath.Join(e.Dir, AntennaFlagsFile))
	if err != nil {
		return fmt.Errorf("creating antenna flag file: %w", err)
	}
	defer closeWithError(f, &err)

	for i, s := range status {
		if s == analysis.StatusGood {
			continue
		}
		if _, err = fmt.Fprintf(f, "%d,", i); err != nil {
			return fmt.Errorf("writing antenna flag file: %w", err)
		}
	}
	return nil
}

// Summary prints the three-line channel count block.
func (e *Emitter) Summary(status []analysis.Status) {
	good, suspect, bad := CountByStatus(status)
	fmt.Fprintf(e.out(), "  Good:    %d\n", good)
	fmt.Fprintf(e.out(), "  Suspect: %d\n", suspect)
	fmt.Fprintf(e.out(), "  Bad:     %d\n", bad)
}

// CountByStatus tallies channels per final status.
func CountByStatus(status []analysis.Status) (good, suspect, bad int) {
	for _, s := range status {
		switch s {
		case analysis.StatusGood:
			good++
		case analysis.StatusSuspect:
			suspect++
		case analysis.StatusBad:
			bad++
		}
	}
	return good, suspect, bad
}

func (e *Emitter) out() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
