// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source" mapstructure:"source"`
	Proxy     ProxyConfig     `yaml:"proxy" mapstructure:"proxy"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	PDF       PDFConfig       `yaml:"pdf" mapstructure:"pdf"`
	Series    SeriesConfig    `yaml:"series" mapstructure:"series"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SourceConfig configures the rate sheet download sources.
type SourceConfig struct {
	PrimaryURL  string `yaml:"primary_url" mapstructure:"primary_url"`
	MirrorURL   string `yaml:"mirror_url" mapstructure:"mirror_url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// ProxyConfig configures the rotating proxy fallback.
type ProxyConfig struct {
	ListURL     string `yaml:"list_url" mapstructure:"list_url"`
	Attempts    int    `yaml:"attempts" mapstructure:"attempts"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnthropicConfig holds Anthropic API settings for the vision fallback.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	VisionModel string `yaml:"vision_model" mapstructure:"vision_model"`
	MaxTokens   int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PDFConfig configures the Poppler toolkit.
type PDFConfig struct {
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	PdfInfoPath   string `yaml:"pdfinfo_path" mapstructure:"pdfinfo_path"`
	PdfToPpmPath  string `yaml:"pdftoppm_path" mapstructure:"pdftoppm_path"`
	RenderDPI     int    `yaml:"render_dpi" mapstructure:"render_dpi"`
	RenderScaleTo int    `yaml:"render_scale_to" mapstructure:"render_scale_to"`
}

// SeriesConfig configures the CSV series and PDF archive locations.
type SeriesConfig struct {
	Dir            string `yaml:"dir" mapstructure:"dir"`
	ArchiveDir     string `yaml:"archive_dir" mapstructure:"archive_dir"`
	ArchiveBaseURL string `yaml:"archive_base_url" mapstructure:"archive_base_url"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RATEKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The standard SDK variable works as well as the prefixed one.
	if err := v.BindEnv("anthropic.key", "RATEKEEPER_ANTHROPIC_KEY", "ANTHROPIC_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}

	// Defaults
	v.SetDefault("source.primary_url", "https://www.sbi.co.in/documents/16012/1400784/FOREX_CARD_RATES.pdf")
	v.SetDefault("source.mirror_url", "https://bank.sbi/documents/16012/1400784/FOREX_CARD_RATES.pdf")
	v.SetDefault("source.user_agent", "ratekeeper/1.0")
	v.SetDefault("source.timeout_secs", 10)
	v.SetDefault("source.max_retries", 3)
	v.SetDefault("proxy.attempts", 5)
	v.SetDefault("proxy.timeout_secs", 10)
	v.SetDefault("anthropic.vision_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("pdf.pdftotext_path", "pdftotext")
	v.SetDefault("pdf.pdfinfo_path", "pdfinfo")
	v.SetDefault("pdf.pdftoppm_path", "pdftoppm")
	v.SetDefault("pdf.render_dpi", 500)
	v.SetDefault("pdf.render_scale_to", 2000)
	v.SetDefault("series.dir", "csv_files")
	v.SetDefault("series.archive_dir", "pdf_files")
	v.SetDefault("series.archive_base_url", "https://github.com/sells-group/fx-ratekeeper/blob/main/pdf_files")
	v.SetDefault("store.path", "ratekeeper.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
