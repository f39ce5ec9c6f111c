// Package render produces the plot artifacts of a flagging run: the
// per-capture median power scatter, the median spectrum line, per-status
// overlays, and a channel-by-bin deviation heatmap.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	heatmapTopBorder    = 24
	heatmapLeftBorder   = 64
	heatmapBottomBorder = 32
	heatmapRightBorder  = 16

	tickMarkHeight = 4
	pixelsPerLabel = 220
)

// HeatmapConfig controls the deviation heatmap rendering.
type HeatmapConfig struct {
	Theme        ColorTheme
	MaxDeviation float64 // Top of the color scale in dB; values above clamp
}

// Heatmap renders the absolute dB deviation of every channel from the
// median spectrum over the comparison window. Rows are channels, columns
// are window bins; NaN bins render in the invalid-bin color.
type Heatmap struct {
	mapper *ColorMapper
	config HeatmapConfig
}

func NewHeatmap(config HeatmapConfig) (*Heatmap, error) {
	if config.MaxDeviation <= 0 {
		config.MaxDeviation = 10
	}

	mapper, err := NewColorMapper(config.Theme, 0, config.MaxDeviation)
	if err != nil {
		return nil, fmt.Errorf("creating color mapper: %w", err)
	}
	return &Heatmap{mapper: mapper, config: config}, nil
}

// Render draws the deviation matrix. freq is the window slice of the batch
// frequency axis, used for the column scale.
func (h *Heatmap) Render(dev [][]float64, freq []float64) (*image.RGBA, error) {
	if len(dev) == 0 || len(dev[0]) == 0 {
		return nil, fmt.Errorf("empty deviation matrix")
	}

	width := len(dev[0])
	rowHeight := max(1, 512/len(dev))
	height := len(dev) * rowHeight

	img := image.NewRGBA(image.Rect(0, 0,
		width+heatmapLeftBorder+heatmapRightBorder,
		height+heatmapTopBorder+heatmapBottomBorder))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for i, row := range dev {
		for y := 0; y < rowHeight; y++ {
			imgY := heatmapTopBorder + i*rowHeight + y
			for j, v := range row {
				img.Set(heatmapLeftBorder+j, imgY, h.mapper.Color(v))
			}
		}
	}

	h.drawFrequencyScale(img, freq, width)
	h.drawChannelScale(img, len(dev), rowHeight)
	h.drawInfoBar(img, len(dev), freq)
	return img, nil
}

// WritePNG renders the heatmap and encodes it to a file.
func (h *Heatmap) WritePNG(path string, dev [][]float64, freq []float64) (err error) {
	img, err := h.Render(dev, freq)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating '%s': %w", path, err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return png.Encode(f, img)
}

func (h *Heatmap) drawFrequencyScale(img *image.RGBA, freq []float64, width int) {
	if len(freq) < 2 {
		return
	}

	count := max(1, width/pixelsPerLabel)
	binsPerLabel := len(freq) / count

	for i := 0; i < count; i++ {
		bin := i * binsPerLabel
		x := heatmapLeftBorder + bin

		for y := heatmapTopBorder - tickMarkHeight; y < heatmapTopBorder; y++ {
			img.Set(x, y, color.Black)
		}
		drawLabel(img, x, heatmapTopBorder-tickMarkHeight-4, humanHz(freq[bin]))
	}
}

func (h *Heatmap) drawChannelScale(img *image.RGBA, channels, rowHeight int) {
	step := max(1, channels/8)
	for ch := 0; ch < channels; ch += step {
		y := heatmapTopBorder + ch*rowHeight
		for x := heatmapLeftBorder - tickMarkHeight; x < heatmapLeftBorder; x++ {
			img.Set(x, y, color.Black)
		}
		drawLabel(img, 4, y+basicfont.Face7x13.Height/2, fmt.Sprintf("ch %d", ch))
	}
}

func (h *Heatmap) drawInfoBar(img *image.RGBA, channels int, freq []float64) {
	info := fmt.Sprintf("%s channels, %s to %s, scale 0-%.0f dB",
		humanize.Comma(int64(channels)), humanHz(freq[0]), humanHz(freq[len(freq)-1]),
		h.config.MaxDeviation)
	drawLabel(img, heatmapLeftBorder, img.Bounds().Max.Y-heatmapBottomBorder/2, info)
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func humanHz(hz float64) string {
	v, suffix := humanize.ComputeSI(hz)
	return fmt.Sprintf("%0.2f %sHz", v, suffix)
}
