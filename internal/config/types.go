package config

// Config is the top-level quicklinks configuration, corresponding to .quicklinks.yml.
type Config struct {
	AdventureDir    string          `yaml:"adventure_dir" koanf:"adventure_dir"`
	PDF             string          `yaml:"pdf" koanf:"pdf"`
	Port            int             `yaml:"port" koanf:"port"`
	AllowAllOrigins bool            `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Store           StoreConfig     `yaml:"store" koanf:"store"`
	Annotator       AnnotatorConfig `yaml:"annotator" koanf:"annotator"`
	Viewer          ViewerConfig    `yaml:"viewer" koanf:"viewer"`
}

// StoreConfig filters which adventure files are listed.
type StoreConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// AnnotatorConfig selects how keyword markers are inserted.
type AnnotatorConfig struct {
	Mode         string `yaml:"mode" koanf:"mode"`
	EscapeLabels bool   `yaml:"escape_labels" koanf:"escape_labels"`
}

// ViewerConfig tunes the generated viewer documents.
type ViewerConfig struct {
	Markdown       bool    `yaml:"markdown" koanf:"markdown"`
	HighlightStyle string  `yaml:"highlight_style" koanf:"highlight_style"`
	LiveReload     bool    `yaml:"live_reload" koanf:"live_reload"`
	Subtitle       string  `yaml:"subtitle" koanf:"subtitle"`
	InitialScale   float64 `yaml:"initial_scale" koanf:"initial_scale"`
	ZoomStep       float64 `yaml:"zoom_step" koanf:"zoom_step"`
	MinScale       float64 `yaml:"min_scale" koanf:"min_scale"`
	MaxScale       float64 `yaml:"max_scale" koanf:"max_scale"`
	FitMinScale    float64 `yaml:"fit_min_scale" koanf:"fit_min_scale"`
	FitMaxScale    float64 `yaml:"fit_max_scale" koanf:"fit_max_scale"`
	SplitDefault   float64 `yaml:"split_default" koanf:"split_default"`
	SplitMin       float64 `yaml:"split_min" koanf:"split_min"`
	SplitMax       float64 `yaml:"split_max" koanf:"split_max"`
	DoubleTapMs    int     `yaml:"double_tap_ms" koanf:"double_tap_ms"`
	PDFJSURL       string  `yaml:"pdfjs_url" koanf:"pdfjs_url"`
	PDFJSWorkerURL string  `yaml:"pdfjs_worker_url" koanf:"pdfjs_worker_url"`
}
