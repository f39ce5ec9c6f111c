package render

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jaycedowell/lwa-sky-survey/internal/analysis"
)

const (
	MedianPowerPlot    = "median_power.png"
	MedianSpectrumPlot = "median_spectrum.png"

	plotWidth  = 10 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// Plots writes the gonum/plot chart artifacts into a directory.
type Plots struct {
	Dir string
}

// MedianPowerScatter draws per-capture median power against a fractional
// day axis, one marker per capture, with temporal outliers cross-marked.
func (p *Plots) MedianPowerScatter(groups []analysis.TrendGroup) error {
	var inliers, outliers plotter.XYs
	for _, group := range groups {
		k := float64(len(group.Points))
		for i, pt := range group.Points {
			xy := plotter.XY{X: float64(group.DayID) + float64(i)/k, Y: pt.Power}
			if pt.Outlier {
				outliers = append(outliers, xy)
			} else {
				inliers = append(inliers, xy)
			}
		}
	}

	pl := plot.New()
	pl.Title.Text = "Median capture power"
	pl.X.Label.Text = "Day"
	pl.Y.Label.Text = "Power"

	if len(inliers) > 0 {
		in, err := plotter.NewScatter(inliers)
		if err != nil {
			return fmt.Errorf("building scatter: %w", err)
		}
		in.GlyphStyle.Shape = draw.CircleGlyph{}
		in.GlyphStyle.Radius = vg.Points(2)
		pl.Add(in)
	}

	if len(outliers) > 0 {
		out, err := plotter.NewScatter(outliers)
		if err != nil {
			return fmt.Errorf("building outlier scatter: %w", err)
		}
		out.GlyphStyle.Shape = draw.CrossGlyph{}
		out.GlyphStyle.Radius = vg.Points(3)
		out.GlyphStyle.Color = color.RGBA{R: 220, A: 255}
		pl.Add(out)
		pl.Legend.Add("outlier", out)
	}

	return pl.Save(plotWidth, plotHeight, filepath.Join(p.Dir, MedianPowerPlot))
}

// MedianSpectrumLine draws the batch median spectrum in dB. The first bin
// carries the DC artifact and is skipped.
func (p *Plots) MedianSpectrumLine(freq, medianSpec []float64) error {
	pl := plot.New()
	pl.Title.Text = "Median"
	pl.X.Label.Text = "Frequency [MHz]"
	pl.Y.Label.Text = "Power [dB]"

	line, err := plotter.NewLine(spectrumXYs(freq, medianSpec))
	if err != nil {
		return fmt.Errorf("building line: %w", err)
	}
	pl.Add(line)

	return pl.Save(plotWidth, plotHeight, filepath.Join(p.Dir, MedianSpectrumPlot))
}

// StatusOverlays draws one chart per status bucket, overlaying the dB
// spectra of every channel with that final status. Empty buckets are
// skipped.
func (p *Plots) StatusOverlays(freq []float64, mean [][]float64, status []analysis.Status) error {
	for _, s := range []analysis.Status{analysis.StatusGood, analysis.StatusSuspect, analysis.StatusBad} {
		pl := plot.New()
		pl.Title.Text = fmt.Sprintf("Status: %s", s)
		pl.X.Label.Text = "Frequency [MHz]"
		pl.Y.Label.Text = "Power [dB]"

		var drawn int
		for i, channelStatus := range status {
			if channelStatus != s {
				continue
			}
			line, err := plotter.NewLine(spectrumXYs(freq, mean[i]))
			if err != nil {
				return fmt.Errorf("building channel %d line: %w", i, err)
			}
			line.Color = overlayColor(drawn)
			pl.Add(line)
			drawn++
		}
		if drawn == 0 {
			continue
		}

		name := fmt.Sprintf("status_%s.png", s)
		if err := pl.Save(plotWidth, plotHeight, filepath.Join(p.Dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// spectrumXYs converts a power spectrum to MHz/dB points, skipping the DC
// bin and any bin without a defined dB level.
func spectrumXYs(freq, spec []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(spec))
	for b := 1; b < len(spec) && b < len(freq); b++ {
		db := analysis.DB(spec[b])
		if math.IsNaN(db) {
			continue
		}
		xys = append(xys, plotter.XY{X: freq[b] / 1e6, Y: db})
	}
	return xys
}

var overlayPalette = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
	color.RGBA{R: 140, G: 86, B: 75, A: 255},
}

func overlayColor(i int) color.Color {
	return overlayPalette[i%len(overlayPalette)]
}
