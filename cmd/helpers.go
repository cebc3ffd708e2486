package cmd

import (
	"fmt"
	"log"

	"github.com/tablekit/quicklinks/internal/annotate"
	"github.com/tablekit/quicklinks/internal/config"
	"github.com/tablekit/quicklinks/internal/navigator"
	"github.com/tablekit/quicklinks/internal/store"
	"github.com/tablekit/quicklinks/internal/viewer"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `quicklinks init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	if verbose {
		log.Printf("config: adventures in %s, pdf %s, annotator %s", cfg.AdventureDir, cfg.PDF, cfg.Annotator.Mode)
	}
	return cfg, nil
}

// openStore creates the adventure store described by cfg.
func openStore(cfg *config.Config) *store.Store {
	return store.New(cfg.AdventureDir,
		store.WithInclude(cfg.Store.Include...),
		store.WithExclude(cfg.Store.Exclude...),
	)
}

// createAnnotatorFromConfig builds the keyword annotator.
func createAnnotatorFromConfig(cfg *config.Config) (*annotate.Annotator, error) {
	mode, err := annotate.ParseMode(cfg.Annotator.Mode)
	if err != nil {
		return nil, err
	}
	return annotate.New(annotate.Options{Mode: mode, EscapeLabels: cfg.Annotator.EscapeLabels}), nil
}

// createRendererFromConfig builds the viewer renderer with the configured
// annotator, body format and runtime tuning.
func createRendererFromConfig(cfg *config.Config) (*viewer.Renderer, error) {
	annotator, err := createAnnotatorFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	v := cfg.Viewer
	opts := viewer.DefaultOptions()
	opts.Annotator = annotator
	opts.Markdown = v.Markdown
	if v.HighlightStyle != "" {
		opts.HighlightStyle = v.HighlightStyle
	}
	if v.Subtitle != "" {
		opts.Subtitle = v.Subtitle
	}
	opts.Runtime.InitialScale = v.InitialScale
	opts.Runtime.ZoomStep = v.ZoomStep
	opts.Runtime.MinScale = v.MinScale
	opts.Runtime.MaxScale = v.MaxScale
	opts.Runtime.FitMinScale = v.FitMinScale
	opts.Runtime.FitMaxScale = v.FitMaxScale
	opts.Runtime.SplitDefault = v.SplitDefault
	opts.Runtime.SplitMin = v.SplitMin
	opts.Runtime.SplitMax = v.SplitMax
	opts.Runtime.DoubleTapMs = v.DoubleTapMs
	if v.PDFJSURL != "" {
		opts.Runtime.PDFJSURL = v.PDFJSURL
	}
	if v.PDFJSWorkerURL != "" {
		opts.Runtime.PDFJSWorkerURL = v.PDFJSWorkerURL
	}
	return viewer.NewRenderer(opts)
}

// navigatorOptions mirrors the viewer tuning for the Go navigator.
func navigatorOptions(cfg *config.Config) navigator.Options {
	v := cfg.Viewer
	return navigator.Options{
		InitialScale: v.InitialScale,
		ZoomStep:     v.ZoomStep,
		MinScale:     v.MinScale,
		MaxScale:     v.MaxScale,
		FitMinScale:  v.FitMinScale,
		FitMaxScale:  v.FitMaxScale,
		SplitDefault: v.SplitDefault,
		SplitMin:     v.SplitMin,
		SplitMax:     v.SplitMax,
	}
}

// openPDFs reads the configured rules PDF. A missing PDF is fatal.
func openPDFs(cfg *config.Config) (*viewer.PDFSource, error) {
	pdfs, err := viewer.NewPDFSource(cfg.PDF)
	if err != nil {
		return nil, fmt.Errorf("%w\nPlace the rules PDF next to the adventures or set `pdf` in %s", err, cfgFile)
	}
	return pdfs, nil
}
