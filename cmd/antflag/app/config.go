package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jaycedowell/lwa-sky-survey/internal/analysis"
	"github.com/jaycedowell/lwa-sky-survey/internal/render"
)

// Tuning holds the statistical thresholds of a run. The defaults match the
// instrument constants; a yaml file given with -tuning overrides them.
type Tuning struct {
	WindowLow   int     `yaml:"windowLow"`   // First comparison bin, inclusive
	WindowHigh  int     `yaml:"windowHigh"`  // Last comparison bin, exclusive
	DeviationDB float64 `yaml:"deviationDB"` // Per-bin deviation threshold
	BadFraction float64 `yaml:"badFraction"` // Deviant-bin fraction marking a channel bad
	TrendSigma  float64 `yaml:"trendSigma"`  // Z-score threshold for temporal outliers
}

// Config represents the command line configuration
type Config struct {
	Paths      []string
	OutputDir  string
	DBPath     string
	TuningPath string
	Theme      render.ColorTheme
	NoPlots    bool
	Verbose    bool
	Tuning     Tuning
}

var validThemes = map[render.ColorTheme]struct{}{
	render.ClassicTheme:   {},
	render.GrayscaleTheme: {},
	render.ThermalTheme:   {},
}

func NewConfig() *Config {
	return &Config{
		OutputDir: ".",
		Theme:     render.ClassicTheme,
		Tuning: Tuning{
			WindowLow:   analysis.DefaultWindowLow,
			WindowHigh:  analysis.DefaultWindowHigh,
			DeviationDB: analysis.DefaultDeviationDB,
			BadFraction: analysis.DefaultBadFraction,
			TrendSigma:  analysis.DefaultTrendSigma,
		},
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var theme string
	flag.StringVar(&c.OutputDir, "out", ".", "Directory for text and plot artifacts")
	flag.StringVar(&c.DBPath, "db", "", "Optional SQLite database to archive the run into")
	flag.StringVar(&c.TuningPath, "tuning", "", "Optional YAML file overriding thresholds")
	flag.StringVar(&theme, "theme", string(render.ClassicTheme), "Heatmap color theme. [classic, grayscale, thermal]")
	flag.BoolVar(&c.NoPlots, "no-plots", false, "Skip rendering plot artifacts")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	c.Paths = flag.Args()
	c.Theme = render.ColorTheme(theme)

	var err error
	if len(c.Paths) == 0 {
		err = errors.New("at least one capture file, or a .txt file list, is required")
	} else if _, ok := validThemes[c.Theme]; !ok {
		err = fmt.Errorf("invalid color theme: %s", theme)
	} else if c.TuningPath != "" {
		err = loadTuning(c.TuningPath, &c.Tuning)
	}
	if err == nil {
		err = c.Tuning.validate()
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}
	return c, nil
}

func loadTuning(path string, t *Tuning) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading tuning file: %w", err)
	}
	if err = yaml.Unmarshal(raw, t); err != nil {
		return fmt.Errorf("parsing tuning file '%s': %w", path, err)
	}
	return nil
}

func (t Tuning) validate() error {
	switch {
	case t.WindowLow < 0 || t.WindowHigh <= t.WindowLow:
		return fmt.Errorf("invalid comparison window [%d, %d)", t.WindowLow, t.WindowHigh)
	case t.DeviationDB <= 0:
		return fmt.Errorf("deviation threshold must be positive, got %f", t.DeviationDB)
	case t.BadFraction <= 0 || t.BadFraction >= 1:
		return fmt.Errorf("bad fraction must be in (0, 1), got %f", t.BadFraction)
	case t.TrendSigma <= 0:
		return fmt.Errorf("trend sigma must be positive, got %f", t.TrendSigma)
	}
	return nil
}
