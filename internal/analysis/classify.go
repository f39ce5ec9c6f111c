package analysis

import (
	"fmt"
	"math"
)

// Default classification thresholds. The window covers the part of the band
// where the instrument response is well behaved; edge bins carry filter
// roll-off artifacts and are excluded from comparison.
const (
	DefaultWindowLow   = 1066
	DefaultWindowHigh  = 3552
	DefaultDeviationDB = 3.0
	DefaultBadFraction = 0.25
)

// Classifier assigns each antenna channel a Status based on how far its
// averaged spectrum sits from the batch median spectrum within the
// comparison window. A channel goes BAD when more than BadFraction of the
// window bins deviate by more than DeviationDB decibels; it stays GOOD
// otherwise. SUSPECT is produced only later, by the pair rule.
type Classifier struct {
	LoBin       int     // First bin of the comparison window, inclusive
	HiBin       int     // Last bin of the comparison window, exclusive
	DeviationDB float64 // Per-bin deviation threshold in dB
	BadFraction float64 // Fraction of deviant window bins that marks a channel bad
}

func NewClassifier() *Classifier {
	return &Classifier{
		LoBin:       DefaultWindowLow,
		HiBin:       DefaultWindowHigh,
		DeviationDB: DefaultDeviationDB,
		BadFraction: DefaultBadFraction,
	}
}

// window clamps the configured bin range to the batch bin count.
func (c *Classifier) window(bins int) (lo, hi int, err error) {
	lo, hi = c.LoBin, c.HiBin
	if lo < 0 {
		lo = 0
	}
	if hi > bins {
		hi = bins
	}
	if lo >= hi {
		return 0, 0, fmt.Errorf("comparison window [%d, %d) is empty for %d bins", c.LoBin, c.HiBin, bins)
	}
	return lo, hi, nil
}

// Classify returns a per-channel Status for the averaged spectrum against
// the median spectrum. Channels default to GOOD; bins whose power is
// non-positive have no dB representation and never count as deviant.
func (c *Classifier) Classify(mean [][]float64, medianSpec []float64) ([]Status, error) {
	lo, hi, err := c.window(len(medianSpec))
	if err != nil {
		return nil, err
	}

	medianDB := make([]float64, hi-lo)
	for b := lo; b < hi; b++ {
		medianDB[b-lo] = DB(medianSpec[b])
	}

	width := float64(hi - lo)
	status := make([]Status, len(mean))
	for i, row := range mean {
		status[i] = StatusGood

		var badBins int
		for b := lo; b < hi; b++ {
			if math.Abs(DB(row[b])-medianDB[b-lo]) > c.DeviationDB {
				badBins++
			}
		}
		if float64(badBins) > c.BadFraction*width {
			status[i] = StatusBad
		}
	}
	return status, nil
}

// Deviations returns the per-channel absolute dB deviation from the median
// spectrum over the comparison window, along with the first window bin.
// Bins without a defined dB level are NaN. The matrix feeds the deviation
// heatmap.
func (c *Classifier) Deviations(mean [][]float64, medianSpec []float64) ([][]float64, int, error) {
	lo, hi, err := c.window(len(medianSpec))
	if err != nil {
		return nil, 0, err
	}

	dev := make([][]float64, len(mean))
	for i, row := range mean {
		dev[i] = make([]float64, hi-lo)
		for b := lo; b < hi; b++ {
			dev[i][b-lo] = math.Abs(DB(row[b]) - DB(medianSpec[b]))
		}
	}
	return dev, lo, nil
}

// ApplyPairRule downgrades polarization pairs in place: for each adjacent
// pair (2k, 2k+1), if either member is not GOOD, each member becomes the
// worse of its own status and SUSPECT. A GOOD channel paired with a BAD one
// therefore ends up SUSPECT, while the BAD one stays BAD. Returns a
// ShapeError if the channel count is odd.
func ApplyPairRule(status []Status) error {
	if len(status)%2 != 0 {
		return &ShapeError{Channels: len(status)}
	}

	for i := 0; i < len(status); i += 2 {
		sx, sy := status[i], status[i+1]
		if sx != StatusGood || sy != StatusGood {
			status[i] = minStatus(sx, StatusSuspect)
			status[i+1] = minStatus(sy, StatusSuspect)
		}
	}
	return nil
}
