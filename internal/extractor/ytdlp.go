package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// Client wraps the yt-dlp extraction library. All network work happens in
// the library; this type only shapes invocations and decodes results.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// infoJSON is the subset of the library's info output the bot needs.
type infoJSON struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Uploader     string   `json:"uploader"`
	Duration     float64  `json:"duration"`
	ExtractorKey string   `json:"extractor_key"`
	Filename     string   `json:"_filename"`
	Formats      []Format `json:"formats"`
}

// Probe asks the library whether it recognizes the URL at all, without
// downloading. It returns the extractor key on success.
func (c *Client) Probe(ctx context.Context, rawURL string) (string, error) {
	info, err := c.inspect(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if info.ExtractorKey == "" {
		return "", classify("no extractor recognized the URL", nil)
	}
	return info.ExtractorKey, nil
}

// Inspect resolves a URL into metadata (title plus raw format descriptors)
// without downloading anything.
func (c *Client) Inspect(ctx context.Context, rawURL string) (*MediaInfo, error) {
	info, err := c.inspect(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	title := info.Title
	if title == "" {
		title = "video"
	}

	return &MediaInfo{
		ID:       info.ID,
		Title:    title,
		Uploader: info.Uploader,
		Duration: info.Duration,
		Formats:  info.Formats,
	}, nil
}

func (c *Client) inspect(ctx context.Context, rawURL string) (*infoJSON, error) {
	dl := ytdlp.New().
		SkipDownload().
		PrintJSON().
		NoPlaylist().
		Quiet().
		NoProgress()

	res, err := dl.Run(ctx, rawURL)
	if err != nil {
		var stderr string
		if res != nil {
			stderr = res.Stderr
		}
		return nil, classify(stderr, err)
	}

	info, perr := parseInfoJSON(res.Stdout)
	if perr != nil {
		return nil, classify(res.Stderr, perr)
	}
	return info, nil
}

// DownloadRequest selects what to materialize locally and where.
type DownloadRequest struct {
	URL      string
	FormatID string
	// MaxHeight bounds the fallback selector when the chosen format has to
	// be paired with a separate audio stream.
	MaxHeight int
	// OutputTemplate is a library output template, e.g. "dir/title.%(ext)s".
	OutputTemplate string
}

// Download fetches the chosen format, merging separate audio and video
// streams into a single mp4 container. It returns the path of the file the
// library produced.
func (c *Client) Download(ctx context.Context, req DownloadRequest) (string, error) {
	height := req.MaxHeight
	if height <= 0 {
		height = 1080
	}
	selector := fmt.Sprintf("%s+bestaudio/bestvideo[height<=?%d]+bestaudio/best", req.FormatID, height)

	dl := ytdlp.New().
		Format(selector).
		Output(req.OutputTemplate).
		MergeOutputFormat("mp4").
		NoPlaylist().
		PrintJSON().
		Quiet().
		NoProgress().
		ConcurrentFragments(5)

	res, err := dl.Run(ctx, req.URL)
	if err != nil {
		var stderr string
		if res != nil {
			stderr = res.Stderr
		}
		return "", classify(stderr, err)
	}

	info, perr := parseInfoJSON(res.Stdout)
	if perr != nil {
		return "", classify(res.Stderr, perr)
	}

	path := info.Filename
	if path == "" {
		return "", classify("library did not report an output filename", nil)
	}

	// A post-download merge rewrites the container, so the reported name
	// can carry the pre-merge extension.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		merged := strings.TrimSuffix(path, filepath.Ext(path)) + ".mp4"
		if _, err := os.Stat(merged); err == nil {
			path = merged
		}
	}

	return path, nil
}

// parseInfoJSON decodes the library's JSON output. The output is one JSON
// object per line; the first decodable object wins.
func parseInfoJSON(stdout string) (*infoJSON, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return nil, fmt.Errorf("empty metadata output")
	}

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		info := &infoJSON{}
		if err := json.Unmarshal([]byte(line), info); err == nil {
			return info, nil
		}
	}
	return nil, fmt.Errorf("no decodable metadata in output")
}
