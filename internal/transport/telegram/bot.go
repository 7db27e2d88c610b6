package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/briefbot/internal/config"
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/service/chat"
	"github.com/sandevgo/briefbot/internal/service/command"
	"github.com/sandevgo/briefbot/pkg/log"
)

const baseContextKey = "base_context"

// historyFetchLimit is deliberately above the prompt budget; the chat
// service trims to its own turn and token limits.
const historyFetchLimit = 40

type Bot struct {
	bot      *tele.Bot
	cfg      *config.TelegramConfig
	chat     *chat.Service
	commands *command.Router
	history  core.MessagesRepository
	sender   *sender
	ownerID  int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	chatSvc *chat.Service,
	commands *command.Router,
	history core.MessagesRepository,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		cfg:      cfg,
		chat:     chatSvc,
		commands: commands,
		history:  history,
		sender:   newSender(b),
		ownerID:  cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)

	welcome := "**BriefBot**\n\n" +
		"Ask me anything about your campaigns, or use `/plan <subject>` to generate a full brief.\n" +
		"`/help` lists all commands."
	return b.sender.sendMarkdown(ctx, c.Chat(), welcome, false)
}

func (b *Bot) handleMessage(c tele.Context) error {
	// Create a context for this request
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	if reply, handled := b.commands.Execute(ctx, sessionID, c.Text()); handled {
		// Keep command output in the transcript so follow-up questions can
		// refer to it.
		b.record(ctx, sessionID, core.Message{Role: core.RoleUser, Content: c.Text()})
		b.record(ctx, sessionID, core.Message{Role: core.RoleAssistant, Content: reply})
		return b.sender.sendMarkdown(ctx, c.Chat(), reply, false)
	}

	history, err := b.history.GetMessages(ctx, sessionID, historyFetchLimit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load chat history")
		history = nil
	}

	b.record(ctx, sessionID, core.Message{Role: core.RoleUser, Content: c.Text()})

	reply, err := b.chat.Converse(ctx, chat.Request{
		Message: c.Text(),
		SubjectContext: map[string]any{
			"name":     sessionID,
			"category": "telegram chat",
		},
		Initialized: len(history) > 0,
		History:     history,
	})
	if err != nil {
		logger.Error().Err(err).Msg("converse failed")
		return c.Send("I'm sorry, something went wrong on our side. Please try again.")
	}

	b.record(ctx, sessionID, core.Message{Role: core.RoleAssistant, Content: reply})

	return b.sender.sendMarkdown(ctx, c.Chat(), reply, false)
}

func (b *Bot) record(ctx context.Context, sessionID string, msg core.Message) {
	if err := b.history.AddMessage(ctx, sessionID, msg); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("role", msg.Role).Msg("failed to save message")
	}
}
