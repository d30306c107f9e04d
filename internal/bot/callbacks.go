package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cmdSearch  = "search"
	cmdFilters = "filters"
	cmdSort    = "sort"
)

// handleCallback handles the inline buttons under a result message. A sort
// button behaves like clicking that column's header.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	data := cb.Data
	chatID := cb.Message.Chat.ID

	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	action, arg, ok := strings.Cut(data, ":")
	if !ok {
		return
	}

	b.log.Info("callback",
		"action", action,
		"arg", arg,
		"chat_id", chatID,
		"user_id", cb.From.ID,
		"username", cb.From.UserName,
	)

	switch action {
	case cmdSort:
		b.handleFilterCommand(ctx, chatID, cmdSort, arg)
	case cmdSearch:
		b.handleSearch(ctx, chatID)
	case cmdFilters:
		b.handleFilters(chatID)
	}
}
