// Package bot is the Telegram front-end: each chat edits its own filter
// selection with slash commands and gets the matching programs back.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"academyscope/internal/autocomplete"
	"academyscope/internal/config"
	"academyscope/internal/model"
	"academyscope/internal/search"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Candidates holds the autocomplete lists offered by /unis and /depts.
type Candidates struct {
	Universities *autocomplete.Proxy
	Departments  *autocomplete.Proxy
}

// Bot is the Telegram bot that handles user commands and replies with results.
type Bot struct {
	api        telegramAPI
	engine     *search.Engine
	candidates Candidates
	cfg        *config.Config
	log        *slog.Logger

	mu    sync.Mutex
	chats map[int64]*chatState
}

// chatState is the selection and result session of one chat.
type chatState struct {
	mu      sync.Mutex
	sel     model.FilterSelection
	session *search.Session
}

// New creates a Bot with the given Telegram token, search engine, and config.
func New(token string, engine *search.Engine, candidates Candidates, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newBot(api, engine, candidates, cfg, log), nil
}

func newBot(api telegramAPI, engine *search.Engine, candidates Candidates, cfg *config.Config, log *slog.Logger) *Bot {
	return &Bot{
		api:        api,
		engine:     engine,
		candidates: candidates,
		cfg:        cfg,
		log:        log,
		chats:      make(map[int64]*chatState),
	}
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.closeSessions()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		if !b.cfg.IsUserAllowed(update.CallbackQuery.From.ID) {
			return
		}
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}
	if !b.cfg.IsUserAllowed(update.Message.From.ID) {
		b.reply(update.Message.Chat.ID, "Access denied.")
		return
	}
	b.handleCommand(ctx, update.Message)
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", msg.ChatID, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

// chat returns the state of chatID, creating it with the default selection.
func (b *Bot) chat(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.chats[chatID]
	if !ok {
		st = &chatState{
			sel:     model.DefaultSelection(),
			session: b.engine.NewSession(&chatSink{bot: b, chatID: chatID, limit: b.cfg.ResultLimit}),
		}
		b.chats[chatID] = st
	}
	return st
}

func (b *Bot) closeSessions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, st := range b.chats {
		st.session.Close()
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case cmdSearch:
		b.handleSearch(ctx, chatID)
	case cmdFilters:
		b.handleFilters(chatID)
	case "unis":
		b.handleSuggest(chatID, b.candidates.Universities, "uni", args)
	case "depts":
		b.handleSuggest(chatID, b.candidates.Departments, "dept", args)
	default:
		if isFilterCommand(cmd) {
			b.handleFilterCommand(ctx, chatID, cmd, args)
			return
		}
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}
