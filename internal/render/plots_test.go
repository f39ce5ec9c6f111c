package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycedowell/lwa-sky-survey/internal/analysis"
)

func requireFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected plot file '%s': %v", path, err)
	}
	if info.Size() == 0 {
		t.Errorf("Plot file '%s' is empty", path)
	}
}

func TestPlots_MedianPowerScatter(t *testing.T) {
	dir := t.TempDir()
	p := &Plots{Dir: dir}

	groups := []analysis.TrendGroup{
		{
			DayID: 57005,
			Points: []analysis.TrendPoint{
				{MedianPowerPoint: analysis.MedianPowerPoint{DayID: 57005, Power: 10}},
				{MedianPowerPoint: analysis.MedianPowerPoint{DayID: 57005, Power: 11}},
				{MedianPowerPoint: analysis.MedianPowerPoint{DayID: 57005, Power: 90}, Outlier: true},
			},
		},
	}
	if err := p.MedianPowerScatter(groups); err != nil {
		t.Fatalf("MedianPowerScatter failed: %v", err)
	}
	requireFile(t, filepath.Join(dir, MedianPowerPlot))
}

func TestPlots_MedianSpectrumLine(t *testing.T) {
	dir := t.TempDir()
	p := &Plots{Dir: dir}

	freq := []float64{10e6, 11e6, 12e6, 13e6}
	spec := []float64{0, 1, 2, 4} // bin 0 skipped, zero power skipped anyway
	if err := p.MedianSpectrumLine(freq, spec); err != nil {
		t.Fatalf("MedianSpectrumLine failed: %v", err)
	}
	requireFile(t, filepath.Join(dir, MedianSpectrumPlot))
}

func TestPlots_StatusOverlays(t *testing.T) {
	dir := t.TempDir()
	p := &Plots{Dir: dir}

	freq := []float64{10e6, 11e6, 12e6}
	mean := [][]float64{
		{1, 2, 3},
		{1, 2, 3},
	}
	status := []analysis.Status{analysis.StatusGood, analysis.StatusBad}

	if err := p.StatusOverlays(freq, mean, status); err != nil {
		t.Fatalf("StatusOverlays failed: %v", err)
	}
	requireFile(t, filepath.Join(dir, "status_good.png"))
	requireFile(t, filepath.Join(dir, "status_bad.png"))

	// No suspect channels, so no suspect plot.
	if _, err := os.Stat(filepath.Join(dir, "status_suspect.png")); !os.IsNotExist(err) {
		t.Error("Expected no plot for an empty status bucket")
	}
}
