// Package bot wires the Telegram transport to the platform classifier, the
// extraction boundary and the Instagram fetcher.
package bot

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/telegrab/telegrab/internal/config"
	"github.com/telegrab/telegrab/internal/extractor"
	"github.com/telegrab/telegrab/internal/history"
	"github.com/telegrab/telegrab/internal/instagram"
	"github.com/telegrab/telegrab/internal/netcheck"
	"github.com/telegrab/telegrab/internal/platform"
	"github.com/telegrab/telegrab/internal/session"
)

// sender is the slice of the transport the handlers talk through.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// resolver is the extraction boundary the handlers call.
type resolver interface {
	platform.Prober
	Inspect(ctx context.Context, rawURL string) (*extractor.MediaInfo, error)
	Download(ctx context.Context, req extractor.DownloadRequest) (string, error)
}

// igFetcher resolves an Instagram post URL into downloaded local files.
type igFetcher interface {
	FetchPost(ctx context.Context, rawURL, baseDir, userID string) ([]string, error)
}

// Bot is the long-polling Telegram front-end.
type Bot struct {
	api *tgbotapi.BotAPI

	// tg and tgDirect share the token; tgDirect carries the short
	// connect/read timeout pair used for remote-URL hand-off attempts.
	tg       sender
	tgDirect sender

	cfg      *config.Config
	env      config.Env
	sessions *session.Store
	extract  resolver
	ig       igFetcher // nil when credentials are absent
	recorder *history.Recorder
	users    *userRegistry

	online    func(ctx context.Context) bool
	hasFFmpeg func() bool
}

// New builds the bot and validates the token against the API.
func New(cfg *config.Config, env config.Env, sessions *session.Store, extract *extractor.Client, ig *instagram.Client) (*Bot, error) {
	uploadClient := &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: 60 * time.Second}).DialContext,
			ResponseHeaderTimeout: 60 * time.Second,
		},
	}
	api, err := tgbotapi.NewBotAPIWithClient(env.BotToken, tgbotapi.APIEndpoint, uploadClient)
	if err != nil {
		return nil, err
	}

	directClient := &http.Client{
		Timeout: 80 * time.Second,
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: 20 * time.Second}).DialContext,
			ResponseHeaderTimeout: 60 * time.Second,
		},
	}
	direct, err := tgbotapi.NewBotAPIWithClient(env.BotToken, tgbotapi.APIEndpoint, directClient)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		api:      api,
		tg:       api,
		tgDirect: direct,
		cfg:      cfg,
		env:      env,
		sessions: sessions,
		extract:  extract,
		recorder: history.NewRecorder(cfg.HistoryFile),
		users:    newUserRegistry(),
		online:   netcheck.Online,
		hasFFmpeg: func() bool {
			_, err := exec.LookPath("ffmpeg")
			return err == nil
		},
	}
	if ig != nil {
		b.ig = ig
	}
	return b, nil
}

// Username returns the bot account name reported by the API.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run polls for updates until the context is canceled. Updates are handled
// one at a time: a single dispatcher drives all handlers, so per-request
// state never sees instruction-level concurrency.
func (b *Bot) Run(ctx context.Context) error {
	if err := os.MkdirAll(b.cfg.DownloadDirectory, 0755); err != nil {
		return err
	}
	slog.Info("download directory ensured", "dir", b.cfg.DownloadDirectory)

	if !b.hasFFmpeg() {
		slog.Warn("ffmpeg not found; separate audio/video streams cannot be merged")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	slog.Info("bot is running", "username", b.Username())
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	log := slog.With("request_id", uuid.NewString())

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, log, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, log, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleLink(ctx, log, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, log *slog.Logger, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(log, msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Send me a link to get started.")
	}
}

// reply sends a plain text message, logging rather than propagating errors:
// a failed status message must never abort a request.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.tg.Send(msg); err != nil {
		slog.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) replyHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.tg.Send(msg); err != nil {
		slog.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// edit rewrites a previously sent status message in place.
func (b *Bot) edit(chatID int64, messageID int, text string) {
	e := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.tg.Send(e); err != nil {
		slog.Debug("failed to edit message", "chat_id", chatID, "error", err)
	}
}
