package analysis

import (
	"math"
	"sort"
)

// median returns the averaged-middle median of values. Unlike
// stat.Quantile's cumulant kinds, this matches the convention of averaging
// the two central samples for even-length input.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MedianPower returns the median over every element of a power matrix.
// It is the per-capture scalar fed to the trend flagger.
func MedianPower(power [][]float64) float64 {
	var total int
	for _, row := range power {
		total += len(row)
	}

	flat := make([]float64, 0, total)
	for _, row := range power {
		flat = append(flat, row...)
	}
	return median(flat)
}

// MedianSpectrum computes the per-bin median of the averaged spectrum across
// the channel axis. The result is the batch reference spectrum.
func MedianSpectrum(mean [][]float64) []float64 {
	if len(mean) == 0 {
		return nil
	}

	bins := len(mean[0])
	out := make([]float64, bins)
	column := make([]float64, len(mean))
	for j := 0; j < bins; j++ {
		for i, row := range mean {
			column[i] = row[j]
		}
		out[j] = median(column)
	}
	return out
}

// DB converts a linear power value to decibels. Non-positive power has no
// defined level and maps to NaN, which is excluded from all deviation
// comparisons downstream.
func DB(power float64) float64 {
	if power <= 0 {
		return math.NaN()
	}
	return 10 * math.Log10(power)
}
