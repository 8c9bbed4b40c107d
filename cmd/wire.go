package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bnema/microcosmos/internal/adapters/events/zaplog"
	"github.com/bnema/microcosmos/internal/adapters/llm/gemini"
	personafile "github.com/bnema/microcosmos/internal/adapters/persona/file"
	statusadapter "github.com/bnema/microcosmos/internal/adapters/render/status"
	"github.com/bnema/microcosmos/internal/adapters/search/exa"
	"github.com/bnema/microcosmos/internal/application"
	"github.com/bnema/microcosmos/internal/config"
	"github.com/bnema/microcosmos/internal/domain"
	"github.com/bnema/microcosmos/internal/ports"
)

type app struct {
	session *application.Session
	logger  *zap.Logger
}

func wireApp(ctx context.Context, verbose bool) (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	sink := zaplog.NewSink(logger)
	generator := gemini.NewClient(cfg.Model)

	var provider ports.SearchProvider
	if cfg.SearchKey != "" {
		provider = exa.NewClient(cfg.SearchKey)
	}

	repo, err := personafile.NewRepository(cfg.PersonaDir)
	if err != nil {
		return nil, fmt.Errorf("wire persona repository: %w", err)
	}

	agents := make([]*application.PersonaAgent, 0, len(cfg.Personas))
	for _, name := range cfg.Personas {
		profile, err := repo.Load(ctx, name)
		if err != nil {
			if !errors.Is(err, domain.ErrPersonaNotFound) {
				return nil, fmt.Errorf("load persona %q: %w", name, err)
			}
			logger.Warn("persona document missing, using fallback profile", zap.String("persona", name))
			profile = domain.FallbackProfile(name)
		}

		pool, err := domain.NewCredentialPool(cfg.ShuffledKeys())
		if err != nil {
			return nil, fmt.Errorf("build credential pool for %q: %w", name, err)
		}

		rotor := application.NewRotationController(pool, generator,
			application.WithEventSink(sink),
			application.WithPersonaLabel(profile.Name),
			application.WithCallTimeout(cfg.CallTimeout),
		)

		var search *application.SearchService
		if provider != nil {
			search = application.NewSearchService(provider, cfg.SearchResultLimit, cfg.SearchPhrasings)
		}

		pipeline := application.NewThinkingPipeline(profile, rotor, search, sink, ports.SystemClock{}, application.PipelineConfig{
			TriggerWords: cfg.TriggerWords,
			HistoryTurns: cfg.HistoryTurns,
		})

		agents = append(agents, application.NewPersonaAgent(profile, pipeline, rotor, cfg.HistoryCap))
	}

	session, err := application.NewSession(agents...)
	if err != nil {
		return nil, err
	}

	return &app{session: session, logger: logger}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	if verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return logConfig.Build()
}

func (a *app) personaStatuses() []statusadapter.PersonaStatus {
	agents := a.session.Agents()
	statuses := make([]statusadapter.PersonaStatus, 0, len(agents))
	for _, agent := range agents {
		statuses = append(statuses, statusadapter.PersonaStatus{
			Persona:     agent.Name(),
			Snapshot:    agent.Health(),
			Credentials: agent.Credentials(),
		})
	}
	return statuses
}
