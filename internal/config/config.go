package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/omegaup-tools/editorialgen/internal/logger"
	"github.com/omegaup-tools/editorialgen/internal/validator"
)

type JudgeConfig struct {
	URL      string `mapstructure:"url"      validate:"required,url"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	// PublicURL is the browser-facing frontend, used for cache-busting
	// reads after publication. Defaults to URL when empty.
	PublicURL string `mapstructure:"public_url"`
}

type GradingConfig struct {
	Language           string   `mapstructure:"language"              validate:"required"`
	KnownLanguages     []string `mapstructure:"known_languages"       validate:"required,min=1"`
	MaxAttempts        int      `mapstructure:"max_attempts"          validate:"required,min=1"`
	PollIntervalSecs   int64    `mapstructure:"poll_interval_secs"    validate:"required,min=1"`
	MaxWaitSecs        int64    `mapstructure:"max_wait_secs"         validate:"required,min=1"`
	SubmitWindowSecs   int64    `mapstructure:"submit_window_secs"`
	InterItemDelaySecs int64    `mapstructure:"inter_item_delay_secs"`
}

type PublishConfig struct {
	Locales []string `mapstructure:"locales" validate:"required,min=1"`
	// Policy decides when a workflow item counts as a success:
	// "any" needs at least one verified locale, "all" needs every one.
	Policy         string `mapstructure:"policy"           validate:"required,oneof=any all"`
	SettleDelaySecs int64 `mapstructure:"settle_delay_secs"`
}

type GeneratorConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// Mode "template" skips the model entirely and emits deterministic
	// content. Useful against a local mock judge.
	Mode string `mapstructure:"mode" validate:"required,oneof=genai template"`
}

type CacheConfig struct {
	RedisHost string `mapstructure:"redis_host"`
	TTLSecs   int64  `mapstructure:"ttl_secs"`
	FailOpen  bool   `mapstructure:"fail_open"`
}

type S3ArchiveConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	SSLEnabled      bool   `mapstructure:"ssl_enabled"`
}

type SlogConfig struct {
	Level int `mapstructure:"level"`
}

type LoggingConfig struct {
	App     SlogConfig `mapstructure:"app"`
	Dir     string     `mapstructure:"dir"`
	UseOTLP bool       `mapstructure:"use_otlp"`
}

// See editorialgen.yaml for an example config
type Config struct {
	Judge     *JudgeConfig     `mapstructure:"judge"      validate:"required"`
	Grading   *GradingConfig   `mapstructure:"grading"    validate:"required"`
	Publish   *PublishConfig   `mapstructure:"publish"    validate:"required"`
	Generator *GeneratorConfig `mapstructure:"generator"  validate:"required"`
	Cache     *CacheConfig     `mapstructure:"cache"`
	S3Archive *S3ArchiveConfig `mapstructure:"s3_archive"`
	Logging   *LoggingConfig   `mapstructure:"logging"`
}

const (
	AppLogLevel        string = "logging.app.level"
	CacheFailOpen      string = "cache.fail_open"
	CacheTTLSecs       string = "cache.ttl_secs"
	EnvPrefix          string = "editorialgen"
	GeneratorAPIKey    string = "generator.api_key" // #nosec
	GeneratorMode      string = "generator.mode"
	GeneratorModel     string = "generator.model"
	InterItemDelaySecs string = "grading.inter_item_delay_secs"
	JudgePassword      string = "judge.password" // #nosec
	JudgeURL           string = "judge.url"
	JudgeUsername      string = "judge.username"
	KnownLanguages     string = "grading.known_languages"
	Language           string = "grading.language"
	LogDir             string = "logging.dir"
	MaxAttempts        string = "grading.max_attempts"
	MaxWaitSecs        string = "grading.max_wait_secs"
	PollIntervalSecs   string = "grading.poll_interval_secs"
	PublishLocales     string = "publish.locales"
	PublishPolicy      string = "publish.policy"
	RedisHost          string = "cache.redis_host"
	S3AccessKeyID      string = "s3_archive.access_key_id"
	S3SSLEnabled       string = "s3_archive.ssl_enabled"
	S3SecretAccessKey  string = "s3_archive.secret_access_key" // #nosec
	SettleDelaySecs    string = "publish.settle_delay_secs"
	SubmitWindowSecs   string = "grading.submit_window_secs"
	UseOTLP            string = "logging.use_otlp"
)

var configReady = false
var config Config

func GetConfig() (*Config, error) {
	if configReady {
		logger.Logger.Debug("returning already-loaded config")
		return &config, nil
	}
	logger.Logger.Info("loading config")

	v := viper.New()

	v.SetConfigName("editorialgen")

	v.AddConfigPath("/etc/editorialgen/")
	v.AddConfigPath(".")

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AutomaticEnv()

	// workaround for https://github.com/spf13/viper/issues/761
	// bind env vars explicitly so they unmarshal into the nested struct
	err := v.BindEnv(JudgeUsername)
	if err != nil {
		return nil, err
	}
	err = v.BindEnv(JudgePassword)
	if err != nil {
		return nil, err
	}
	err = v.BindEnv(GeneratorAPIKey)
	if err != nil {
		return nil, err
	}
	err = v.BindEnv(S3AccessKeyID)
	if err != nil {
		return nil, err
	}
	err = v.BindEnv(S3SecretAccessKey)
	if err != nil {
		return nil, err
	}

	v.SetDefault(JudgeURL, "https://omegaup.com")
	v.SetDefault(Language, "py3")
	v.SetDefault(KnownLanguages, []string{
		"c11-gcc", "cpp17-gcc", "cpp20-gcc", "java", "py2", "py3",
		"rb", "cs", "go", "rs", "js", "kt", "lua", "hs", "pas",
	})
	v.SetDefault(MaxAttempts, 2)
	v.SetDefault(PollIntervalSecs, 2)
	v.SetDefault(MaxWaitSecs, 60)
	v.SetDefault(SubmitWindowSecs, 60)
	v.SetDefault(InterItemDelaySecs, 5)

	v.SetDefault(PublishLocales, []string{"es", "en", "pt"})
	v.SetDefault(PublishPolicy, "any")
	v.SetDefault(SettleDelaySecs, 3)

	v.SetDefault(GeneratorMode, "genai")
	v.SetDefault(GeneratorModel, "gemini-2.0-flash")

	v.SetDefault(RedisHost, "")
	v.SetDefault(CacheTTLSecs, int64((10 * time.Minute).Seconds()))
	v.SetDefault(CacheFailOpen, true)

	v.SetDefault(S3SSLEnabled, true)

	v.SetDefault(AppLogLevel, int(slog.LevelDebug))
	v.SetDefault(LogDir, "logs")
	v.SetDefault(UseOTLP, false)

	err = v.ReadInConfig()
	if err != nil {
		// ignore config file not found to allow pure env config
		if _, ok := err.(*viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	valid := validator.Create()
	err = valid.Validate(&config)
	if err != nil {
		configReady = false
		return nil, err
	}

	configReady = true
	return &config, nil
}

// PollInterval is the delay between consecutive status reads.
func (g *GradingConfig) PollInterval() time.Duration {
	return time.Duration(g.PollIntervalSecs) * time.Second
}

// MaxWait is the total budget for one grading job to reach a terminal
// status.
func (g *GradingConfig) MaxWait() time.Duration {
	return time.Duration(g.MaxWaitSecs) * time.Second
}

// SubmitWindow is the judge-side rate limit between two submissions to
// the same problem.
func (g *GradingConfig) SubmitWindow() time.Duration {
	return time.Duration(g.SubmitWindowSecs) * time.Second
}

// InterItemDelay spaces out consecutive problems in a bulk run.
func (g *GradingConfig) InterItemDelay() time.Duration {
	return time.Duration(g.InterItemDelaySecs) * time.Second
}

// SettleDelay gives the frontend time to materialize a publication
// before verification reads it back.
func (p *PublishConfig) SettleDelay() time.Duration {
	return time.Duration(p.SettleDelaySecs) * time.Second
}

// LanguageKnown reports whether lang is in the configured allowlist.
func (g *GradingConfig) LanguageKnown(lang string) bool {
	for _, l := range g.KnownLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
