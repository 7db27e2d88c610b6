package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sandevgo/briefbot/internal/config"
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/providers/llm"
	"github.com/sandevgo/briefbot/internal/service/chat"
	"github.com/sandevgo/briefbot/internal/service/command"
	"github.com/sandevgo/briefbot/internal/service/planner"
	"github.com/sandevgo/briefbot/internal/service/state"
	"github.com/sandevgo/briefbot/internal/storage/sqlite"
	"github.com/sandevgo/briefbot/internal/telemetry"
	"github.com/sandevgo/briefbot/internal/transport/api"
	"github.com/sandevgo/briefbot/internal/transport/telegram"
	"github.com/sandevgo/briefbot/pkg/log"
	"github.com/sandevgo/briefbot/pkg/retry"
	"github.com/sandevgo/briefbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	pipeCfg := config.NewPipelineConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	analyses := sqlite.NewAnalysesRepo(db)
	messages := sqlite.NewMessagesRepo(db)

	// 3. AI provider, model-switchable. Brief generation retries per the
	// configured policy; a conversational turn gets a single attempt.
	base, err := llm.NewDynamicProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	generation := llm.NewRetrying(base, retry.FixedStep(pipeCfg.GenerationAttempts, pipeCfg.GenerationBackoff))
	conversation := llm.NewRetrying(base, retry.Once())

	// 4. Telemetry
	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	// 5. Brief generation pipeline
	briefs := planner.NewService(generation, analyses, metrics)

	// 6. Conversation service with its context cache
	converse := chat.NewService(pipeCfg, conversation, analyses, chat.NewContextCache(0), metrics)

	// 7. Slash commands
	commands := command.New(command.NewCommands(llmCfg, state.NewGlobalState(base), briefs, analyses))

	// 8. Transports
	transports, err := initTransports(ctx, appCfg, briefs, converse, commands, messages, metrics)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initTransports(
	ctx context.Context,
	cfg *config.AppConfig,
	briefs *planner.Service,
	converse *chat.Service,
	commands *command.Router,
	messages core.MessagesRepository,
	metrics *telemetry.Metrics,
) ([]srv.Service, error) {
	var services []srv.Service

	// Dashboard-facing HTTP API
	if cfg.EnableHTTP {
		httpCfg := config.NewHTTPConfig(ctx)
		services = append(services, api.NewServer(ctx, httpCfg, briefs, converse, metrics))
	}

	// Telegram Bot
	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, converse, commands, messages)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
