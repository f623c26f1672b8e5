package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/telegrab/telegrab/internal/extractor"
	"github.com/telegrab/telegrab/internal/instagram"
	"github.com/telegrab/telegrab/internal/platform"
	"github.com/telegrab/telegrab/internal/quality"
	"github.com/telegrab/telegrab/internal/session"
)

// handleLink classifies an incoming URL and routes it to the matching flow.
func (b *Bot) handleLink(ctx context.Context, log *slog.Logger, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	url := strings.TrimSpace(msg.Text)
	p := platform.Detect(ctx, url, b.extract)
	log = log.With("platform", string(p), "user_id", msg.From.ID)
	log.Info("link received", "url", url)

	b.replyHTML(msg.Chat.ID, fmt.Sprintf("Platform: <b>%s</b>\nProcessing link...", p))

	switch {
	case p == platform.Instagram:
		b.handleInstagram(ctx, log, msg, url)
	case p == platform.YouTube || p.IsGeneric():
		b.handleQualityMenu(ctx, log, msg, url, p)
	default:
		b.reply(msg.Chat.ID, "This platform is not supported yet, or the URL is not recognized.")
	}
}

// handleQualityMenu resolves metadata and presents the format options as an
// inline keyboard.
func (b *Bot) handleQualityMenu(ctx context.Context, log *slog.Logger, msg *tgbotapi.Message, url string, p platform.Platform) {
	if !b.hasFFmpeg() {
		// Proceed anyway; only merged formats are affected.
		b.reply(msg.Chat.ID, "FFmpeg is not installed on the server. Some formats may not be available or video/audio might not merge.")
	}
	if !b.online(ctx) {
		b.reply(msg.Chat.ID, "No internet connection on the server.")
		return
	}

	b.reply(msg.Chat.ID, "Fetching video information...")

	info, err := b.extract.Inspect(ctx, url)
	if err != nil {
		log.Error("metadata fetch failed", "error", err)
		switch extractor.KindOf(err) {
		case extractor.KindRestricted:
			b.reply(msg.Chat.ID, "This video is private, copyrighted, or otherwise unavailable for download.")
		default:
			b.reply(msg.Chat.ID, "Failed to fetch video info. Please check the link and try again.")
		}
		return
	}

	options := quality.BuildOptions(info.Formats)
	if len(options) == 0 {
		b.reply(msg.Chat.ID, "No suitable download formats found or video is protected.")
		return
	}

	// Only the presented formats are kept for the callback round-trip.
	byID := make(map[string]extractor.Format, len(info.Formats))
	for _, f := range info.Formats {
		byID[f.ID] = f
	}
	stored := make(map[string]extractor.Format, len(options))
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		stored[opt.ID] = byID[opt.ID]
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Label, encodePayload(opt.ID, url)),
		))
	}

	b.sessions.Put(msg.From.ID, &session.Entry{
		URL:      url,
		Title:    info.Title,
		Platform: string(p),
		Formats:  stored,
	})

	pick := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Select quality for '%s':", info.Title))
	pick.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.tg.Send(pick); err != nil {
		log.Error("failed to send quality menu", "error", err)
	}
}

// handleInstagram fetches every media item of a post and relays the files,
// then removes the post's scratch directory no matter how sending went.
func (b *Bot) handleInstagram(ctx context.Context, log *slog.Logger, msg *tgbotapi.Message, url string) {
	if b.ig == nil {
		b.reply(msg.Chat.ID, "Instagram downloads are currently unavailable (configuration missing).")
		return
	}
	if !b.online(ctx) {
		b.reply(msg.Chat.ID, "No internet connection on the server.")
		return
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	baseDir := filepath.Join(b.cfg.DownloadDirectory, "instagram_media")

	// Cleanup is registered before the fetch: a fetch that fails after
	// creating the post directory must still leave nothing behind.
	if shortcode, ok := instagram.Shortcode(url); ok {
		dir := filepath.Join(baseDir, userID, shortcode)
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				log.Error("failed to clean up instagram directory", "dir", dir, "error", err)
			} else {
				log.Info("cleaned up instagram directory", "dir", dir)
			}
		}()
	}

	files, err := b.ig.FetchPost(ctx, url, baseDir, userID)
	if err != nil {
		log.Error("instagram fetch failed", "error", err)
		b.reply(msg.Chat.ID, "Could not download Instagram content or no media found.")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Found %d media item(s). Sending now...", len(files)))

	sent := 0
	for _, file := range files {
		doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FilePath(file))
		if _, err := b.tg.Send(doc); err != nil {
			// One failed file must not abort the batch.
			log.Error("failed to send instagram file", "file", file, "error", err)
			b.reply(msg.Chat.ID, fmt.Sprintf("Failed to send a file: %s", filepath.Base(file)))
			continue
		}
		sent++
	}

	if sent > 0 {
		b.reply(msg.Chat.ID, "All Instagram media sent.")
		if err := b.recorder.Record(msg.From.ID, string(platform.Instagram), url, "local"); err != nil {
			log.Warn("failed to record history", "error", err)
		}
	}
}
