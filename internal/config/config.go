package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"retailkpi/internal/common"
	apperrors "retailkpi/pkg/errors"
	"retailkpi/pkg/models"
)

// EnvPrefix prefixes every environment override (RETAILKPI_RECONCILE_THRESHOLD).
const EnvPrefix = "RETAILKPI"

// LocalConfigFile is looked up in the working directory before the home config.
const LocalConfigFile = "retailkpi.yaml"

// GetConfigPath returns the per-user configuration directory.
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".retailkpi")
}

// GetConfigFile returns the per-user configuration file.
func GetConfigFile() string {
	return filepath.Join(GetConfigPath(), "config.yaml")
}

// SetDefaults registers the built-in value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("inputs.products", "data/maestro_productos.csv")
	v.SetDefault("inputs.inventory", "data/inventario_diario.csv")
	v.SetDefault("inputs.transactions", "data/transacciones_ventas.csv")

	v.SetDefault("normalize.reference_year", 2025)

	v.SetDefault("reconcile.threshold", 40.0)
	v.SetDefault("reconcile.vocabulary", []string{})
	v.SetDefault("reconcile.aliases", map[string]string{})

	v.SetDefault("output.dir", "")
	v.SetDefault("output.format", "table")
	v.SetDefault("output.sqlite", "")
	v.SetDefault("output.top", 0)
	v.SetDefault("output.color", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("scrape.houses_url", "https://www.portalinmobiliario.com/venta/casa/propiedades-usadas/las-condes-metropolitana")
	v.SetDefault("scrape.apartments_url", "https://www.portalinmobiliario.com/venta/departamento/propiedades-usadas/las-condes-metropolitana")
	v.SetDefault("scrape.max_pages", 3)
	v.SetDefault("scrape.page_size", 48)
	v.SetDefault("scrape.min_delay", "1s")
	v.SetDefault("scrape.max_delay", "3s")
	v.SetDefault("scrape.timeout", "30s")
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.respect_robots", true)
	v.SetDefault("scrape.demo_fallback", false)
	v.SetDefault("scrape.min_listings", 5)
	v.SetDefault("scrape.fallback_seed", 42)
	v.SetDefault("scrape.skew_ratio", 1.1)

	v.SetDefault("runner.analyses", []string{"retail", "scrape"})
}

// Load resolves the configuration: defaults, then the config file, then
// RETAILKPI_ environment variables, with a .env file in the working
// directory loaded first. An explicit path must exist; otherwise the local
// and home files are optional. It returns the file used ("" for none).
func Load(v *viper.Viper, path string) (*models.Config, string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to read .env file")
	}

	SetDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		file = findConfigFile()
	} else if _, err := os.Stat(file); err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeConfigNotFound, "config file not found").
			WithContext("path", file).
			WithSuggestions("Check the --config flag", "Omit --config to use "+LocalConfigFile+" or "+GetConfigFile())
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to read config file").
				WithContext("path", file)
		}
	}

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to decode configuration")
	}
	return &cfg, file, nil
}

func findConfigFile() string {
	for _, candidate := range []string{LocalConfigFile, GetConfigFile()} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// ScrapeDurations parses the scraper delay and timeout settings.
func ScrapeDurations(c models.ScrapeConf) (minDelay, maxDelay, timeout time.Duration, err error) {
	if minDelay, err = time.ParseDuration(c.MinDelay); err != nil {
		return 0, 0, 0, apperrors.ConfigError("invalid duration "+c.MinDelay, "scrape.min_delay")
	}
	if maxDelay, err = time.ParseDuration(c.MaxDelay); err != nil {
		return 0, 0, 0, apperrors.ConfigError("invalid duration "+c.MaxDelay, "scrape.max_delay")
	}
	if timeout, err = time.ParseDuration(c.Timeout); err != nil {
		return 0, 0, 0, apperrors.ConfigError("invalid duration "+c.Timeout, "scrape.timeout")
	}
	return minDelay, maxDelay, timeout, nil
}

// Validate rejects settings no run could use.
func Validate(cfg *models.Config) error {
	if cfg.Reconcile.Threshold < 0 || cfg.Reconcile.Threshold > 100 {
		return apperrors.ValidationError("reconcile.threshold", cfg.Reconcile.Threshold, "must be between 0 and 100").
			WithSeverity(apperrors.SeverityError)
	}

	inputs := map[string]string{
		"inputs.products":     cfg.Inputs.Products,
		"inputs.inventory":    cfg.Inputs.Inventory,
		"inputs.transactions": cfg.Inputs.Transactions,
	}
	for _, field := range []string{"inputs.products", "inputs.inventory", "inputs.transactions"} {
		if strings.TrimSpace(inputs[field]) == "" {
			return apperrors.ValidationError(field, inputs[field], "path is required").
				WithSeverity(apperrors.SeverityError)
		}
	}

	switch cfg.Output.Format {
	case "", "table", "csv":
	default:
		return apperrors.ValidationError("output.format", cfg.Output.Format, "must be table or csv").
			WithSeverity(apperrors.SeverityError)
	}

	minDelay, maxDelay, _, err := ScrapeDurations(cfg.Scrape)
	if err != nil {
		return err
	}
	if minDelay > maxDelay {
		return apperrors.ValidationError("scrape.min_delay", cfg.Scrape.MinDelay, "must not exceed scrape.max_delay").
			WithSeverity(apperrors.SeverityError)
	}

	for _, a := range cfg.Runner.Analyses {
		if a != "retail" && a != "scrape" {
			return apperrors.ValidationError("runner.analyses", a, "unknown analysis").
				WithSeverity(apperrors.SeverityError)
		}
	}

	return nil
}

// Save writes cfg to path as YAML, creating the directory when needed.
func Save(path string, cfg *models.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), common.DirPermissionNormal); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigWrite, "failed to create config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigWrite, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, common.FilePermissionNormal); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigWrite, "failed to write config file").
			WithContext("path", path)
	}
	return nil
}

// SaveAliases merges aliases into reconcile.aliases of the YAML file at path,
// leaving every other key as it was. A missing file is created.
func SaveAliases(path string, aliases map[string]string) error {
	doc := map[string]interface{}{}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from --config or the default location
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to parse config file").
				WithContext("path", path)
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return apperrors.Wrap(err, apperrors.ErrCodeConfigWrite, "failed to read config file").
			WithContext("path", path)
	}

	reconcile, _ := doc["reconcile"].(map[string]interface{})
	if reconcile == nil {
		reconcile = map[string]interface{}{}
	}
	merged, _ := reconcile["aliases"].(map[string]interface{})
	if merged == nil {
		merged = map[string]interface{}{}
	}
	for k, v := range aliases {
		merged[k] = v
	}
	reconcile["aliases"] = merged
	doc["reconcile"] = reconcile

	out, err := yaml.Marshal(doc)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigWrite, "failed to marshal config")
	}
	if err := os.MkdirAll(filepath.Dir(path), common.DirPermissionNormal); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigWrite, "failed to create config directory")
	}
	if err := os.WriteFile(path, out, common.FilePermissionNormal); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigWrite, "failed to write config file").
			WithContext("path", path)
	}
	return nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
