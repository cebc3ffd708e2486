package config

// DefaultPDF is the rules PDF looked up next to the working directory.
const DefaultPDF = "GURPS 4e - Lite.pdf"

// DefaultFile is the config file read when --config is not given.
const DefaultFile = ".quicklinks.yml"

// DefaultConfig returns a Config with the stock viewer tuning.
func DefaultConfig() *Config {
	return &Config{
		AdventureDir: "adventures",
		PDF:          DefaultPDF,
		Port:         8080,
		Store: StoreConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Annotator: AnnotatorConfig{
			Mode: "sequential",
		},
		Viewer: ViewerConfig{
			HighlightStyle: "monokai",
			LiveReload:     true,
			Subtitle:       "GURPS Lite Quick-Links",
			InitialScale:   1.2,
			ZoomStep:       0.15,
			MinScale:       0.4,
			MaxScale:       3.0,
			FitMinScale:    0.5,
			FitMaxScale:    2.8,
			SplitDefault:   46,
			SplitMin:       0,
			SplitMax:       100,
			DoubleTapMs:    350,
			PDFJSURL:       "https://cdn.jsdelivr.net/npm/pdfjs-dist@3.11.174/build/pdf.min.js",
			PDFJSWorkerURL: "https://cdn.jsdelivr.net/npm/pdfjs-dist@3.11.174/build/pdf.worker.min.js",
		},
	}
}
