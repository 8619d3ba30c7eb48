package cmds

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/redis/go-redis/v9"

	"github.com/omegaup-tools/editorialgen/internal/cache"
	"github.com/omegaup-tools/editorialgen/internal/config"
	"github.com/omegaup-tools/editorialgen/internal/generate"
	"github.com/omegaup-tools/editorialgen/internal/judge"
	"github.com/omegaup-tools/editorialgen/internal/logger"
	pipelineerrors "github.com/omegaup-tools/editorialgen/internal/pipeline_errors"
	"github.com/omegaup-tools/editorialgen/internal/publish"
	"github.com/omegaup-tools/editorialgen/internal/report"
	"github.com/omegaup-tools/editorialgen/internal/runlog"
	"github.com/omegaup-tools/editorialgen/internal/types"
	"github.com/omegaup-tools/editorialgen/internal/workflow"
)

// pipeline holds one run's fully wired collaborators.
type pipeline struct {
	orchestrator *workflow.Orchestrator
	writer       *report.Writer
	log          runlog.Context
	cfg          *config.Config
	closers      []func() error
}

func (p *pipeline) close() {
	for _, c := range p.closers {
		if err := c(); err != nil {
			logger.Logger.Warn("failed to close pipeline resource", "error", err)
		}
	}
}

// buildPipeline loads config, authenticates against the judge and wires
// every collaborator for one run. An authentication failure here is
// fatal; nothing is submitted after it.
func buildPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.Grading.LanguageKnown(cfg.Grading.Language) {
		return nil, fmt.Errorf(
			"configured language %q is not in the known language set",
			cfg.Grading.Language,
		)
	}

	p := &pipeline{cfg: cfg, log: runlog.NewContext()}

	if cfg.Logging != nil {
		logger.LogLevel.Set(slog.Level(cfg.Logging.App.Level))
	}
	if cfg.Logging != nil && cfg.Logging.Dir != "" {
		closeLog, err := logger.InitRunLog(cfg.Logging.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open run log: %w", err)
		}
		p.closers = append(p.closers, closeLog)
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.Logger = nil

	grader, err := judge.NewClient(
		cfg.Judge.URL,
		cfg.Judge.PublicURL,
		httpClient.StandardClient(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to construct judge client: %w", err)
	}

	if err := grader.Login(ctx, cfg.Judge.Username, cfg.Judge.Password); err != nil {
		return nil, pipelineerrors.ExitErrorWrap(types.ExitErrored, err)
	}

	generator, err := buildGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := buildStore(cfg)

	monitor := judge.NewMonitor(
		grader,
		cfg.Grading.PollInterval(),
		cfg.Grading.MaxWait(),
	)

	publisher := publish.NewManager(
		grader,
		store,
		cfg.Publish.Locales,
		publish.Policy(cfg.Publish.Policy),
		cfg.Publish.SettleDelay(),
	)

	p.orchestrator = workflow.NewOrchestrator(
		grader,
		monitor,
		generator,
		publisher,
		workflow.Options{
			Language:       cfg.Grading.Language,
			MaxAttempts:    cfg.Grading.MaxAttempts,
			SubmitWindow:   cfg.Grading.SubmitWindow(),
			InterItemDelay: cfg.Grading.InterItemDelay(),
		},
		p.log,
	)

	uploader, err := buildUploader(cfg)
	if err != nil {
		return nil, err
	}
	reportDir := "logs"
	if cfg.Logging != nil && cfg.Logging.Dir != "" {
		reportDir = cfg.Logging.Dir
	}
	p.writer = report.NewWriter(reportDir, uploader, p.log)

	return p, nil
}

func buildGenerator(ctx context.Context, cfg *config.Config) (generate.Generator, error) {
	if cfg.Generator.Mode == "template" {
		return generate.NewTemplateGenerator(), nil
	}
	if cfg.Generator.APIKey == "" {
		logger.Logger.Warn("no generator api key configured, using template mode")
		return generate.NewTemplateGenerator(), nil
	}

	genai, err := generate.NewGenAIGenerator(ctx, cfg.Generator.APIKey, cfg.Generator.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to construct generator: %w", err)
	}
	return &generate.Fallback{
		Primary:   genai,
		Secondary: generate.NewTemplateGenerator(),
	}, nil
}

func buildStore(cfg *config.Config) cache.Store {
	if cfg.Cache == nil || cfg.Cache.RedisHost == "" {
		return cache.NewNoopStore()
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisHost})
	return cache.NewRedisStore(cache.RedisStoreConfig{
		RedisClient: client,
		TTL:         time.Duration(cfg.Cache.TTLSecs) * time.Second,
		FailOpen:    cfg.Cache.FailOpen,
	})
}

func buildUploader(cfg *config.Config) (report.Uploader, error) {
	if cfg.S3Archive == nil || cfg.S3Archive.Endpoint == "" {
		return nil, nil
	}

	minioUploader, err := report.NewMinioUploader(
		cfg.S3Archive.Endpoint,
		cfg.S3Archive.AccessKeyID,
		cfg.S3Archive.SecretAccessKey,
		cfg.S3Archive.SSLEnabled,
		cfg.S3Archive.BucketName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to construct report uploader: %w", err)
	}

	return report.NewRetryUploader(minioUploader), nil
}
