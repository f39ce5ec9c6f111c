// Package analysis implements the statistical core of the flagging job:
// spectrum averaging, per-day trend outlier detection, windowed
// median-deviation classification and the polarization pair rule.
package analysis

// Status is the tri-state health classification of a single antenna channel.
// The numeric values form an ordinal scale (lower is worse) so that pair
// downgrades are a plain min-combine.
type Status int

const (
	StatusBad     Status = 1
	StatusSuspect Status = 2
	StatusGood    Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusBad:
		return "bad"
	case StatusSuspect:
		return "suspect"
	case StatusGood:
		return "good"
	default:
		return "unknown"
	}
}

// minStatus combines two statuses on the ordinal scale.
func minStatus(a, b Status) Status {
	if a < b {
		return a
	}
	return b
}
