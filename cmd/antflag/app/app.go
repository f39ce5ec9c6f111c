package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/jaycedowell/lwa-sky-survey/internal/analysis"
	"github.com/jaycedowell/lwa-sky-survey/internal/capture"
	"github.com/jaycedowell/lwa-sky-survey/internal/render"
	"github.com/jaycedowell/lwa-sky-survey/internal/report"
	"github.com/jaycedowell/lwa-sky-survey/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	paths, err := capture.ExpandList(config.Paths)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("capture list is empty")
	}

	if err = os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory '%s': %w", config.OutputDir, err)
	}

	batch, err := loadBatch(ctx, paths, logger)
	if err != nil {
		return err
	}

	emitter := report.NewEmitter(config.OutputDir)

	groups := analysis.FlagTrendOutliers(batch.points, config.Tuning.TrendSigma)
	if err = emitter.WriteBadCaptures(groups); err != nil {
		return err
	}

	var flagged int
	for _, group := range groups {
		flagged += len(group.Outliers())
	}
	logger.Info("temporal outlier scan finished",
		slog.Group("trend",
			slog.Int("days", len(groups)),
			slog.Int("flagged", flagged),
			slog.Float64("sigma", config.Tuning.TrendSigma),
		))

	mean := batch.averager.Mean()
	medianSpec := analysis.MedianSpectrum(mean)

	classifier := &analysis.Classifier{
		LoBin:       config.Tuning.WindowLow,
		HiBin:       config.Tuning.WindowHigh,
		DeviationDB: config.Tuning.DeviationDB,
		BadFraction: config.Tuning.BadFraction,
	}
	status, err := classifier.Classify(mean, medianSpec)
	if err != nil {
		return fmt.Errorf("classifying channels: %w", err)
	}
	if err = analysis.ApplyPairRule(status); err != nil {
		return fmt.Errorf("applying pair rule: %w", err)
	}

	emitter.Summary(status)
	if err = emitter.WriteAntennaFlags(status); err != nil {
		return err
	}

	if !config.NoPlots {
		if err = renderPlots(config, batch, groups, mean, medianSpec, classifier, status, logger); err != nil {
			return err
		}
	}

	if config.DBPath != "" {
		if err = archiveRun(ctx, config, batch, groups, status); err != nil {
			return err
		}
		logger.Info("run archived", slog.String("db", config.DBPath))
	}

	return nil
}

// batchData is the loaded state of one run: the accumulating averager, the
// per-capture median power timeline and the shared frequency axis.
type batchData struct {
	averager *analysis.Averager
	points   []analysis.MedianPowerPoint
	freq     []float64
}

func loadBatch(ctx context.Context, paths []string, logger *slog.Logger) (*batchData, error) {
	batch := &batchData{
		averager: analysis.NewAverager(),
		points:   make([]analysis.MedianPowerPoint, 0, len(paths)),
	}

	var loader capture.NPZLoader
	bar := progressbar.Default(int64(len(paths)), "loading captures")
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading capture '%s': %w", path, err)
		}

		if err = batch.averager.Add(c); err != nil {
			return nil, err
		}
		batch.points = append(batch.points, analysis.MedianPowerPoint{
			DayID: c.DayID,
			Power: analysis.MedianPower(c.Power),
			Path:  path,
		})
		if batch.freq == nil {
			batch.freq = c.Frequencies
		}

		_ = bar.Add(1)
	}
	_ = bar.Finish()

	logger.Info("captures loaded",
		slog.Group("batch",
			slog.Int("captures", batch.averager.Count()),
			slog.Int("channels", batch.averager.Channels()),
			slog.Int("bins", batch.averager.Bins()),
		))
	return batch, nil
}

func renderPlots(config *Config, batch *batchData, groups []analysis.TrendGroup,
	mean [][]float64, medianSpec []float64, classifier *analysis.Classifier,
	status []analysis.Status, logger *slog.Logger) error {

	if len(mean) == 0 {
		return fmt.Errorf("batch has no channels to plot")
	}

	plots := &render.Plots{Dir: config.OutputDir}
	if err := plots.MedianPowerScatter(groups); err != nil {
		return fmt.Errorf("rendering median power scatter: %w", err)
	}
	if err := plots.MedianSpectrumLine(batch.freq, medianSpec); err != nil {
		return fmt.Errorf("rendering median spectrum: %w", err)
	}
	if err := plots.StatusOverlays(batch.freq, mean, status); err != nil {
		return fmt.Errorf("rendering status overlays: %w", err)
	}

	dev, loBin, err := classifier.Deviations(mean, medianSpec)
	if err != nil {
		return fmt.Errorf("computing deviations: %w", err)
	}

	heatmap, err := render.NewHeatmap(render.HeatmapConfig{Theme: config.Theme})
	if err != nil {
		return err
	}

	heatmapPath := filepath.Join(config.OutputDir, "deviation_heatmap.png")
	if err = heatmap.WritePNG(heatmapPath, dev, batch.freq[loBin:loBin+len(dev[0])]); err != nil {
		return fmt.Errorf("rendering deviation heatmap: %w", err)
	}

	logger.Info("plots rendered", slog.String("dir", config.OutputDir))
	return nil
}

func archiveRun(ctx context.Context, config *Config, batch *batchData,
	groups []analysis.TrendGroup, status []analysis.Status) (err error) {

	store := storage.New(config.DBPath)
	defer func() {
		if cErr := store.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	runID, err := store.CreateRun(ctx, storage.RunMeta{
		CaptureCount: batch.averager.Count(),
		ChannelCount: batch.averager.Channels(),
		BinCount:     batch.averager.Bins(),
		WindowLow:    config.Tuning.WindowLow,
		WindowHigh:   config.Tuning.WindowHigh,
		Config:       config.Tuning,
	})
	if err != nil {
		return err
	}

	if err = store.StoreStatuses(ctx, runID, status); err != nil {
		return err
	}
	return store.StoreBadCaptures(ctx, runID, groups)
}
