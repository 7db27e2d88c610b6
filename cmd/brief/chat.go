package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/briefbot/internal/config"
	"github.com/sandevgo/briefbot/internal/providers/llm"
	"github.com/sandevgo/briefbot/internal/service/chat"
	"github.com/sandevgo/briefbot/internal/service/command"
	"github.com/sandevgo/briefbot/internal/service/planner"
	"github.com/sandevgo/briefbot/internal/service/state"
	"github.com/sandevgo/briefbot/internal/storage/sqlite"
	"github.com/sandevgo/briefbot/internal/transport/cli"
	"github.com/sandevgo/briefbot/pkg/log"
	"github.com/sandevgo/briefbot/pkg/retry"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with BriefBot from the terminal",
	Long:  `Starts an interactive session against the configured provider. Slash commands like /plan and /recent work here too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			logger.Fatal().Err(err).Msg("failed to init env")
		}

		appCfg := config.NewAppConfig(ctx)
		llmCfg := config.NewLLMConfig(ctx)
		pipeCfg := config.NewPipelineConfig(ctx)

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		defer db.Close()

		analyses := sqlite.NewAnalysesRepo(db)

		base, err := llm.NewDynamicProvider(ctx, llmCfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
		}
		generation := llm.NewRetrying(base, retry.FixedStep(pipeCfg.GenerationAttempts, pipeCfg.GenerationBackoff))
		conversation := llm.NewRetrying(base, retry.Once())

		// No registry in the terminal session; nil metrics record nothing.
		briefs := planner.NewService(generation, analyses, nil)
		converse := chat.NewService(pipeCfg, conversation, analyses, chat.NewContextCache(0), nil)
		commands := command.New(command.NewCommands(llmCfg, state.NewGlobalState(base), briefs, analyses))

		repl, err := cli.NewReadLine(converse, commands, appCfg)
		if err != nil {
			return err
		}
		defer repl.Shutdown(ctx)

		return repl.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
