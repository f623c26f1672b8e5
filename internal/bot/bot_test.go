package bot

import (
	"context"
	"log/slog"
	"os"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/telegrab/telegrab/internal/config"
	"github.com/telegrab/telegrab/internal/extractor"
	"github.com/telegrab/telegrab/internal/history"
	"github.com/telegrab/telegrab/internal/session"
)

// fakeSender records everything sent through it and fails on demand.
type fakeSender struct {
	sent    []tgbotapi.Chattable
	sendErr error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts flattens the recorded plain and edited message bodies.
func (f *fakeSender) texts() []string {
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func containsText(texts []string, want string) bool {
	for _, t := range texts {
		if t == want {
			return true
		}
	}
	return false
}

// fakeResolver stands in for the extraction boundary.
type fakeResolver struct {
	info        *extractor.MediaInfo
	inspectErr  error
	downloadErr error
	downloads   int
}

func (f *fakeResolver) Probe(ctx context.Context, rawURL string) (string, error) {
	return "", f.inspectErr
}

func (f *fakeResolver) Inspect(ctx context.Context, rawURL string) (*extractor.MediaInfo, error) {
	if f.inspectErr != nil {
		return nil, f.inspectErr
	}
	return f.info, nil
}

func (f *fakeResolver) Download(ctx context.Context, req extractor.DownloadRequest) (string, error) {
	f.downloads++
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return req.OutputTemplate, nil
}

// fakeFetcher mimics a post fetch, optionally creating its scratch
// directory first the way a partially failed download would.
type fakeFetcher struct {
	files []string
	err   error
	mkdir string
}

func (f *fakeFetcher) FetchPost(ctx context.Context, rawURL, baseDir, userID string) ([]string, error) {
	if f.mkdir != "" {
		if err := os.MkdirAll(f.mkdir, 0755); err != nil {
			return nil, err
		}
	}
	return f.files, f.err
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *fakeSender) {
	t.Helper()
	tg := &fakeSender{}
	direct := &fakeSender{}
	b := &Bot{
		tg:        tg,
		tgDirect:  direct,
		cfg:       &config.Config{DownloadDirectory: t.TempDir()},
		sessions:  session.NewStore(),
		recorder:  history.NewRecorder(""),
		users:     newUserRegistry(),
		online:    func(context.Context) bool { return true },
		hasFFmpeg: func() bool { return true },
	}
	return b, tg, direct
}

func discardLog() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
