package analysis

import (
	"github.com/jaycedowell/lwa-sky-survey/internal/capture"
)

// Averager accumulates per-capture power spectra into a single running-sum
// buffer and produces the element-wise mean across the batch. The first
// capture added fixes the channel and bin counts for the rest of the batch;
// captures may be discarded once added.
type Averager struct {
	sum      [][]float64
	channels int
	bins     int
	count    int
}

func NewAverager() *Averager {
	return &Averager{}
}

// Add accumulates one capture into the running sum. It returns a
// ConsistencyError if the capture's shape differs from the first capture.
func (a *Averager) Add(c *capture.Capture) error {
	channels, bins := c.Channels(), c.Bins()

	if a.count == 0 {
		a.channels = channels
		a.bins = bins
		a.sum = make([][]float64, channels)
		for i := range a.sum {
			a.sum[i] = make([]float64, bins)
		}
	} else if channels != a.channels || bins != a.bins {
		return &ConsistencyError{
			Path:         c.Path,
			WantChannels: a.channels,
			WantBins:     a.bins,
			GotChannels:  channels,
			GotBins:      bins,
		}
	}

	for i, row := range c.Power {
		if len(row) != a.bins {
			return &ConsistencyError{
				Path:         c.Path,
				WantChannels: a.channels,
				WantBins:     a.bins,
				GotChannels:  channels,
				GotBins:      len(row),
			}
		}
		for j, p := range row {
			a.sum[i][j] += p
		}
	}

	a.count++
	return nil
}

// Count returns the number of captures accumulated so far.
func (a *Averager) Count() int {
	return a.count
}

// Channels returns the channel count fixed by the first capture, or zero.
func (a *Averager) Channels() int {
	return a.channels
}

// Bins returns the bin count fixed by the first capture, or zero.
func (a *Averager) Bins() int {
	return a.bins
}

// Mean returns the element-wise arithmetic mean of all accumulated captures,
// or nil if nothing has been accumulated. The returned matrix is freshly
// allocated and safe to modify.
func (a *Averager) Mean() [][]float64 {
	if a.count == 0 {
		return nil
	}

	mean := make([][]float64, a.channels)
	n := float64(a.count)
	for i, row := range a.sum {
		mean[i] = make([]float64, a.bins)
		for j, p := range row {
			mean[i][j] = p / n
		}
	}
	return mean
}
