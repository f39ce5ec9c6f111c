package analysis

import (
	"errors"
	"testing"

	"github.com/jaycedowell/lwa-sky-survey/internal/capture"
)

func makeCapture(path string, power [][]float64) *capture.Capture {
	freq := make([]float64, len(power[0]))
	for i := range freq {
		freq[i] = 10e6 + float64(i)*1e3
	}
	return &capture.Capture{
		Path:        path,
		DayID:       57005,
		Frequencies: freq,
		Power:       power,
	}
}

func TestAverager_IdenticalCaptures(t *testing.T) {
	power := [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
	}

	a := NewAverager()
	for i := 0; i < 5; i++ {
		if err := a.Add(makeCapture("57005_a.npz", power)); err != nil {
			t.Fatalf("Failed to add capture %d: %v", i, err)
		}
	}

	if a.Count() != 5 {
		t.Errorf("Expected count 5, got %d", a.Count())
	}

	mean := a.Mean()
	for i, row := range power {
		for j, want := range row {
			if mean[i][j] != want {
				t.Errorf("Mean[%d][%d]: expected %f, got %f", i, j, want, mean[i][j])
			}
		}
	}
}

func TestAverager_Mean(t *testing.T) {
	a := NewAverager()
	if err := a.Add(makeCapture("57005_a.npz", [][]float64{{2, 4}, {6, 8}})); err != nil {
		t.Fatalf("Failed to add capture: %v", err)
	}
	if err := a.Add(makeCapture("57005_b.npz", [][]float64{{4, 8}, {10, 12}})); err != nil {
		t.Fatalf("Failed to add capture: %v", err)
	}

	mean := a.Mean()
	want := [][]float64{{3, 6}, {8, 10}}
	for i, row := range want {
		for j, w := range row {
			if mean[i][j] != w {
				t.Errorf("Mean[%d][%d]: expected %f, got %f", i, j, w, mean[i][j])
			}
		}
	}
}

func TestAverager_ShapeMismatch(t *testing.T) {
	testCases := []struct {
		name  string
		power [][]float64
	}{
		{"channel count differs", [][]float64{{1, 2, 3}}},
		{"bin count differs", [][]float64{{1, 2}, {3, 4}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAverager()
			if err := a.Add(makeCapture("57005_a.npz", [][]float64{{1, 2, 3}, {4, 5, 6}})); err != nil {
				t.Fatalf("Failed to add first capture: %v", err)
			}

			err := a.Add(makeCapture("57005_b.npz", tc.power))
			var consistencyErr *ConsistencyError
			if !errors.As(err, &consistencyErr) {
				t.Fatalf("Expected ConsistencyError, got %v", err)
			}
			if consistencyErr.Path != "57005_b.npz" {
				t.Errorf("Expected offending path in error, got '%s'", consistencyErr.Path)
			}
		})
	}
}

func TestAverager_Empty(t *testing.T) {
	a := NewAverager()
	if a.Mean() != nil {
		t.Error("Mean of empty averager should be nil")
	}
	if a.Count() != 0 {
		t.Errorf("Expected count 0, got %d", a.Count())
	}
}
