package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultTrendSigma is the z-score threshold above which a capture's
// detrended median power marks it a temporal outlier.
const DefaultTrendSigma = 3.0

// MedianPowerPoint is one capture's median power tagged with its acquisition
// day and source path.
type MedianPowerPoint struct {
	DayID int64
	Power float64
	Path  string
}

// TrendPoint is a MedianPowerPoint with its detrend diagnostics attached.
type TrendPoint struct {
	MedianPowerPoint
	Residual float64
	ZScore   float64
	Outlier  bool
}

// TrendGroup holds the detrend results for all captures sharing one day-id,
// in input encounter order.
type TrendGroup struct {
	DayID  int64
	Points []TrendPoint
}

// Outliers returns the flagged points of the group, in encounter order.
func (g TrendGroup) Outliers() []TrendPoint {
	var out []TrendPoint
	for _, p := range g.Points {
		if p.Outlier {
			out = append(out, p)
		}
	}
	return out
}

// FlagTrendOutliers groups captures by day-id and flags those whose median
// power deviates from the day's linear trend by more than sigma population
// standard deviations. Groups are returned in ascending day-id order;
// within a group, points keep their input order. Groups of fewer than two
// captures, and groups with zero residual variance, produce no outliers.
func FlagTrendOutliers(points []MedianPowerPoint, sigma float64) []TrendGroup {
	byDay := make(map[int64][]MedianPowerPoint)
	var days []int64
	for _, p := range points {
		if _, ok := byDay[p.DayID]; !ok {
			days = append(days, p.DayID)
		}
		byDay[p.DayID] = append(byDay[p.DayID], p)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	groups := make([]TrendGroup, 0, len(days))
	for _, day := range days {
		groups = append(groups, detrendGroup(day, byDay[day], sigma))
	}
	return groups
}

func detrendGroup(day int64, points []MedianPowerPoint, sigma float64) TrendGroup {
	group := TrendGroup{DayID: day, Points: make([]TrendPoint, len(points))}
	for i, p := range points {
		group.Points[i] = TrendPoint{MedianPowerPoint: p}
	}

	k := len(points)
	if k < 2 {
		return group
	}

	xs := make([]float64, k)
	ys := make([]float64, k)
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Power
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	residuals := make([]float64, k)
	for i := range ys {
		residuals[i] = ys[i] - (alpha + beta*xs[i])
	}

	meanR := stat.Mean(residuals, nil)
	stdR := stat.PopStdDev(residuals, nil)
	if stdR == 0 || math.IsNaN(stdR) {
		return group
	}

	for i := range group.Points {
		z := (residuals[i] - meanR) / stdR
		group.Points[i].Residual = residuals[i]
		group.Points[i].ZScore = z
		group.Points[i].Outlier = math.Abs(z) > sigma
	}
	return group
}
