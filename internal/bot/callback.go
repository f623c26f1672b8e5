package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/telegrab/telegrab/internal/downloader"
	"github.com/telegrab/telegrab/internal/extractor"
	"github.com/telegrab/telegrab/internal/quality"
)

// deliveryState names the stages of the two-phase delivery strategy.
// SelectionPending -> DirectAttempt -> {Delivered, LocalDownload}
// LocalDownload    -> {Delivered, Failed}
type deliveryState int

const (
	stateSelectionPending deliveryState = iota
	stateDirectAttempt
	stateLocalDownload
	stateDelivered
	stateFailed
)

// handleCallback runs when the user presses a quality button.
func (b *Bot) handleCallback(ctx context.Context, log *slog.Logger, q *tgbotapi.CallbackQuery) {
	if _, err := b.tg.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		slog.Debug("failed to ack callback", "error", err)
	}
	if q.Message == nil || q.From == nil {
		return
	}

	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID
	userID := q.From.ID
	log = log.With("user_id", userID)

	formatID, url, err := decodePayload(q.Data)
	if err != nil {
		log.Warn("malformed callback payload", "data", q.Data)
		b.edit(chatID, messageID, "Error: malformed callback data.")
		return
	}

	entry := b.sessions.Get(userID)
	if entry == nil || entry.URL != url {
		b.edit(chatID, messageID, "Session expired or data mismatch. Please send the link again.")
		return
	}

	format, ok := entry.Formats[formatID]
	if !ok {
		b.edit(chatID, messageID, "Selected format details not found. Please try again.")
		return
	}

	b.deliver(ctx, log, deliveryRequest{
		chatID:    chatID,
		messageID: messageID,
		userID:    userID,
		url:       url,
		title:     entry.Title,
		platform:  entry.Platform,
		formatID:  formatID,
		format:    format,
	})
}

type deliveryRequest struct {
	chatID    int64
	messageID int
	userID    int64
	url       string
	title     string
	platform  string
	formatID  string
	format    extractor.Format
}

// deliver walks the delivery state machine until a terminal state. Each
// state has a single point of failure handling; a direct-attempt failure is
// soft and transitions to the local path instead of surfacing.
func (b *Bot) deliver(ctx context.Context, log *slog.Logger, req deliveryRequest) {
	state := stateSelectionPending
	for {
		switch state {
		case stateSelectionPending:
			if quality.DirectEligible(&req.format) {
				state = stateDirectAttempt
			} else {
				state = stateLocalDownload
			}

		case stateDirectAttempt:
			state = b.attemptDirect(log, req)

		case stateLocalDownload:
			state = b.downloadAndSend(ctx, log, req)

		case stateDelivered, stateFailed:
			return
		}
	}
}

// attemptDirect hands the remote URL to the transport as if it were a
// file. Any failure is soft: the machine moves on to the local path.
func (b *Bot) attemptDirect(log *slog.Logger, req deliveryRequest) deliveryState {
	b.edit(req.chatID, req.messageID, fmt.Sprintf("Attempting to send '%s' directly by URL...", req.title))

	video := tgbotapi.NewVideo(req.chatID, tgbotapi.FileURL(req.format.URL))
	video.Caption = fmt.Sprintf("%s (direct from source)", req.title)

	if _, err := b.tgDirect.Send(video); err != nil {
		log.Warn("direct send failed, falling back to local download", "error", err)
		b.edit(req.chatID, req.messageID, fmt.Sprintf("Direct send failed. Attempting local download for '%s'...", req.title))
		return stateLocalDownload
	}

	b.edit(req.chatID, req.messageID, fmt.Sprintf("Sent '%s' directly from source!", req.title))
	b.sessions.Delete(req.userID, req.url)
	if err := b.recorder.Record(req.userID, req.platform, req.title, "direct"); err != nil {
		log.Warn("failed to record history", "error", err)
	}
	return stateDelivered
}

// downloadAndSend materializes the chosen format locally, uploads it, and
// deletes the scratch file regardless of how the upload went.
func (b *Bot) downloadAndSend(ctx context.Context, log *slog.Logger, req deliveryRequest) deliveryState {
	b.edit(req.chatID, req.messageID, fmt.Sprintf("Downloading '%s' locally in selected quality...", req.title))

	userDir := filepath.Join(b.cfg.DownloadDirectory, strconv.FormatInt(req.userID, 10), "youtube")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		log.Error("failed to create scratch directory", "dir", userDir, "error", err)
		b.edit(req.chatID, req.messageID, "Error preparing download directory.")
		return stateFailed
	}

	saneTitle := downloader.SanitizeTitle(req.title)
	path, err := b.extract.Download(ctx, extractor.DownloadRequest{
		URL:            req.url,
		FormatID:       req.formatID,
		MaxHeight:      req.format.Height,
		OutputTemplate: filepath.Join(userDir, saneTitle+".%(ext)s"),
	})
	if err != nil {
		log.Error("local download failed", "error", err)
		switch extractor.KindOf(err) {
		case extractor.KindRestricted:
			b.edit(req.chatID, req.messageID, "This video is private, copyrighted, or otherwise unavailable for download.")
		default:
			b.edit(req.chatID, req.messageID, fmt.Sprintf("Error downloading video locally: %s", req.title))
		}
		return stateFailed
	}

	finalPath := downloader.UniqueFilename(path)
	if finalPath != path {
		if err := os.Rename(path, finalPath); err != nil {
			log.Error("failed to rename downloaded file", "from", path, "to", finalPath, "error", err)
			finalPath = path
		}
	}

	b.edit(req.chatID, req.messageID, "Local download completed. Sending file...")

	doc := tgbotapi.NewDocument(req.chatID, tgbotapi.FilePath(finalPath))
	doc.Caption = req.title
	_, sendErr := b.tg.Send(doc)

	// Scratch cleanup and session teardown happen on both outcomes.
	if err := os.Remove(finalPath); err != nil {
		log.Error("failed to remove downloaded file", "file", finalPath, "error", err)
	}
	b.sessions.Delete(req.userID, req.url)

	if sendErr != nil {
		log.Error("failed to send downloaded file", "file", finalPath, "error", sendErr)
		b.edit(req.chatID, req.messageID, "Error sending file. Please try again later.")
		return stateFailed
	}

	b.edit(req.chatID, req.messageID, fmt.Sprintf("Sent: %s", req.title))
	if err := b.recorder.Record(req.userID, req.platform, req.title, "local"); err != nil {
		log.Warn("failed to record history", "error", err)
	}
	return stateDelivered
}
