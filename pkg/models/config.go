package models

// Config is the on-disk configuration for retailkpi.
type Config struct {
	Inputs    Inputs        `yaml:"inputs" mapstructure:"inputs"`
	Normalize NormalizeConf `yaml:"normalize" mapstructure:"normalize"`
	Reconcile ReconcileConf `yaml:"reconcile" mapstructure:"reconcile"`
	Output    Output        `yaml:"output" mapstructure:"output"`
	Logging   Logging       `yaml:"logging" mapstructure:"logging"`
	Scrape    ScrapeConf    `yaml:"scrape" mapstructure:"scrape"`
	Runner    RunnerConf    `yaml:"runner" mapstructure:"runner"`
}

// Inputs locates the three source tables.
type Inputs struct {
	Products     string `yaml:"products" mapstructure:"products"`
	Inventory    string `yaml:"inventory" mapstructure:"inventory"`
	Transactions string `yaml:"transactions" mapstructure:"transactions"`
}

// NormalizeConf controls the field normalizer.
type NormalizeConf struct {
	ReferenceYear int `yaml:"reference_year" mapstructure:"reference_year"`
}

// ReconcileConf controls category reconciliation.
type ReconcileConf struct {
	Threshold  float64           `yaml:"threshold" mapstructure:"threshold"`
	Vocabulary []string          `yaml:"vocabulary,omitempty" mapstructure:"vocabulary"` // empty uses the built-in list
	Aliases    map[string]string `yaml:"aliases,omitempty" mapstructure:"aliases"`       // normalized value -> canonical term
}

// Output controls where reports go.
type Output struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"` // "table" or "csv"
	SQLite string `yaml:"sqlite,omitempty" mapstructure:"sqlite"`
	Top    int    `yaml:"top" mapstructure:"top"`
	Color  bool   `yaml:"color" mapstructure:"color"`
}

// Logging controls the structured logger.
type Logging struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "console" or "json"
}

// ScrapeConf configures the listing scraper.
type ScrapeConf struct {
	HousesURL     string  `yaml:"houses_url" mapstructure:"houses_url"`
	ApartmentsURL string  `yaml:"apartments_url" mapstructure:"apartments_url"`
	MaxPages      int     `yaml:"max_pages" mapstructure:"max_pages"`
	PageSize      int     `yaml:"page_size" mapstructure:"page_size"`
	MinDelay      string  `yaml:"min_delay" mapstructure:"min_delay"`
	MaxDelay      string  `yaml:"max_delay" mapstructure:"max_delay"`
	Timeout       string  `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxRetries    int     `yaml:"max_retries" mapstructure:"max_retries"`
	RespectRobots bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
	DemoFallback  bool    `yaml:"demo_fallback" mapstructure:"demo_fallback"`
	MinListings   int     `yaml:"min_listings" mapstructure:"min_listings"`
	FallbackSeed  int64   `yaml:"fallback_seed" mapstructure:"fallback_seed"`
	SkewRatio     float64 `yaml:"skew_ratio" mapstructure:"skew_ratio"` // mean/median ratio above which prices are reported as skewed
}

// RunnerConf lists the analyses executed by "retailkpi all".
type RunnerConf struct {
	Analyses []string `yaml:"analyses" mapstructure:"analyses"`
}
