package analysis

import "fmt"

// ConsistencyError reports a capture whose power matrix does not match the
// shape established by the first capture of the batch.
type ConsistencyError struct {
	Path         string
	WantChannels int
	WantBins     int
	GotChannels  int
	GotBins      int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("capture '%s' has shape %dx%d, batch requires %dx%d",
		e.Path, e.GotChannels, e.GotBins, e.WantChannels, e.WantBins)
}

// ShapeError reports a channel count that cannot be split into
// polarization pairs.
type ShapeError struct {
	Channels int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("channel count %d is odd, cannot pair polarizations", e.Channels)
}
