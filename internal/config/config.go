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
	Monday   MondayConfig   `yaml:"monday" mapstructure:"monday"`
	Boards   BoardsConfig   `yaml:"boards" mapstructure:"boards"`
	Columns  ColumnsConfig  `yaml:"columns" mapstructure:"columns"`
	Query    QueryConfig    `yaml:"query" mapstructure:"query"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Vocab    VocabConfig    `yaml:"vocab" mapstructure:"vocab"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// MondayConfig holds monday.com API settings.
type MondayConfig struct {
	Token        string  `yaml:"token" mapstructure:"token"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	APIVersion   string  `yaml:"api_version" mapstructure:"api_version"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// BoardsConfig identifies the two boards. IDs win over names; when neither
// is set the board is auto-detected by name keywords.
type BoardsConfig struct {
	DealsID        string `yaml:"deals_id" mapstructure:"deals_id"`
	DealsName      string `yaml:"deals_name" mapstructure:"deals_name"`
	WorkOrdersID   string `yaml:"work_orders_id" mapstructure:"work_orders_id"`
	WorkOrdersName string `yaml:"work_orders_name" mapstructure:"work_orders_name"`
}

// ColumnsConfig maps tracked field keys to board column titles.
type ColumnsConfig struct {
	Deals      map[string]string `yaml:"deals" mapstructure:"deals"`
	WorkOrders map[string]string `yaml:"work_orders" mapstructure:"work_orders"`
}

// QueryConfig tunes interpreter keyword scoring.
type QueryConfig struct {
	TokenWeight  float64 `yaml:"token_weight" mapstructure:"token_weight"`
	PhraseWeight float64 `yaml:"phrase_weight" mapstructure:"phrase_weight"`
}

// AnalysisConfig holds stage weights and health-classification thresholds.
// These are tuning knobs, not semantics; defaults mirror historical close
// probabilities.
type AnalysisConfig struct {
	StageWeights       map[string]float64 `yaml:"stage_weights" mapstructure:"stage_weights"`
	StrongWinRate      float64            `yaml:"strong_win_rate" mapstructure:"strong_win_rate"`
	WeakWinRate        float64            `yaml:"weak_win_rate" mapstructure:"weak_win_rate"`
	OnHoldRatioCeiling float64            `yaml:"on_hold_ratio_ceiling" mapstructure:"on_hold_ratio_ceiling"`
	PipelineValueFloor float64            `yaml:"pipeline_value_floor" mapstructure:"pipeline_value_floor"`
	MaxWarnings        int                `yaml:"max_warnings" mapstructure:"max_warnings"`
}

// VocabConfig points at an optional vocabulary override file.
type VocabConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the query API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
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
	v.SetEnvPrefix("INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("monday.token", "")
	v.SetDefault("monday.base_url", "https://api.monday.com/v2")
	v.SetDefault("monday.api_version", "2024-01")
	v.SetDefault("monday.timeout_secs", 60)
	v.SetDefault("monday.rate_limit_rps", 5)
	v.SetDefault("boards.deals_id", "")
	v.SetDefault("boards.work_orders_id", "")
	v.SetDefault("vocab.path", "")
	v.SetDefault("boards.deals_name", "Deals")
	v.SetDefault("boards.work_orders_name", "Work Orders")
	v.SetDefault("columns.deals", map[string]string{
		"amount":     "Amount",
		"stage":      "Stage",
		"sector":     "Sector",
		"close_date": "Close Date",
		"owner":      "Owner",
	})
	v.SetDefault("columns.work_orders", map[string]string{
		"revenue":         "Revenue",
		"status":          "Status",
		"sector":          "Sector",
		"start_date":      "Start Date",
		"end_date":        "End Date",
		"project_manager": "Project Manager",
	})
	v.SetDefault("query.token_weight", 1.0)
	v.SetDefault("query.phrase_weight", 2.0)
	v.SetDefault("analysis.stage_weights", map[string]float64{
		"Lead":        0.10,
		"Qualified":   0.25,
		"Proposal":    0.50,
		"Negotiation": 0.75,
		"Closed Won":  1.00,
		"Closed Lost": 0.00,
	})
	v.SetDefault("analysis.strong_win_rate", 0.40)
	v.SetDefault("analysis.weak_win_rate", 0.20)
	v.SetDefault("analysis.on_hold_ratio_ceiling", 0.20)
	v.SetDefault("analysis.pipeline_value_floor", 500000)
	v.SetDefault("analysis.max_warnings", 5)

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
