package telegram

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/briefbot/pkg/conv"
	"github.com/sandevgo/briefbot/pkg/log"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if
// needed. Rendered briefs regularly exceed a single message.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, silent bool) error {
	logger := log.FromCtx(ctx)
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		opts := []interface{}{tele.ModeHTML}
		if silent && i == 0 {
			opts = append(opts, tele.Silent)
		}

		if _, err := s.bot.Send(to, chunk, opts...); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// splitHTML splits text into chunks under Telegram's size limit. Brief
// sections are separated by blank lines, so a paragraph boundary is the
// preferred cut, then any newline; a hard cut never lands inside a tag.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > maxLen {
		cut := breakPoint(text[:maxLen])
		chunks = append(chunks, strings.TrimRight(text[:cut], " \n"))
		text = strings.TrimLeft(text[cut:], " \n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// breakPoint picks where to cut an over-long window: the last blank line
// past the first third, failing that the last newline past the first third,
// failing that right before a tag the hard cut would otherwise split.
func breakPoint(window string) int {
	if idx := strings.LastIndex(window, "\n\n"); idx > len(window)/3 {
		return idx
	}
	if idx := strings.LastIndex(window, "\n"); idx > len(window)/3 {
		return idx
	}

	if open := strings.LastIndexByte(window, '<'); open > strings.LastIndexByte(window, '>') && open > 0 {
		return open
	}
	return len(window)
}
