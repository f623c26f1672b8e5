package instagram

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// shortcodeMarkers are the path segments that precede a post identifier,
// tried in order.
var shortcodeMarkers = []string{"p", "reel", "reels"}

// Shortcode extracts the post identifier from an Instagram URL's path by
// locating a marker segment and taking the segment after it.
func Shortcode(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for _, marker := range shortcodeMarkers {
		for i, seg := range segments {
			if seg == marker && i+1 < len(segments) && segments[i+1] != "" {
				return segments[i+1], true
			}
		}
	}
	return "", false
}

// shortcodeToMediaID converts a post shortcode to the numeric media ID the
// API wants. Shortcodes are the media ID in a base64 URL-safe alphabet.
func shortcodeToMediaID(shortcode string) (uint64, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	var id uint64
	for _, r := range shortcode {
		idx := strings.IndexRune(alphabet, r)
		if idx < 0 {
			return 0, fmt.Errorf("invalid shortcode character %q", r)
		}
		id = id*64 + uint64(idx)
	}
	return id, nil
}

type mediaVersion struct {
	URL string `json:"url"`
}

// mediaItem is the API's per-item media record.
type mediaItem struct {
	MediaType      int            `json:"media_type"` // 1 image, 2 video, 8 carousel
	CarouselMedia  []mediaItem    `json:"carousel_media"`
	VideoVersions  []mediaVersion `json:"video_versions"`
	ImageVersions2 struct {
		Candidates []mediaVersion `json:"candidates"`
	} `json:"image_versions2"`
}

const (
	mediaTypeImage    = 1
	mediaTypeVideo    = 2
	mediaTypeCarousel = 8
)

func (m *mediaItem) isVideo() bool { return m.MediaType == mediaTypeVideo }

// bestURL picks the item's direct media URL: first video version for
// videos, first (largest) image candidate otherwise.
func (m *mediaItem) bestURL() string {
	if m.isVideo() && len(m.VideoVersions) > 0 {
		return m.VideoVersions[0].URL
	}
	if len(m.ImageVersions2.Candidates) > 0 {
		return m.ImageVersions2.Candidates[0].URL
	}
	return ""
}

// FetchPost downloads every media item of a post into
// baseDir/<userID>/<shortcode>/ and returns the local file paths. The
// directory is only created once the post resolves; a URL without a
// recognizable shortcode fails before any filesystem work. The caller owns
// cleanup of the returned directory after transmission.
func (c *Client) FetchPost(ctx context.Context, rawURL, baseDir, userID string) ([]string, error) {
	shortcode, ok := Shortcode(rawURL)
	if !ok {
		return nil, fmt.Errorf("could not extract shortcode from URL %s", rawURL)
	}

	if err := c.EnsureLogin(ctx); err != nil {
		return nil, err
	}

	mediaID, err := shortcodeToMediaID(shortcode)
	if err != nil {
		return nil, fmt.Errorf("bad shortcode %q: %w", shortcode, err)
	}

	var info struct {
		Items  []mediaItem `json:"items"`
		Status string      `json:"status"`
	}
	infoURL := fmt.Sprintf("%s/api/v1/media/%d/info/", igBaseURL, mediaID)
	if err := c.apiGet(ctx, infoURL, &info); err != nil {
		return nil, fmt.Errorf("failed to resolve post %s: %w", shortcode, err)
	}
	if len(info.Items) == 0 {
		return nil, fmt.Errorf("post %s has no media items", shortcode)
	}

	postDir := filepath.Join(baseDir, userID, shortcode)
	if err := os.MkdirAll(postDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create post directory: %w", err)
	}

	item := info.Items[0]
	var files []string

	switch {
	case item.MediaType == mediaTypeCarousel:
		for i := range item.CarouselMedia {
			node := &item.CarouselMedia[i]
			mediaURL := node.bestURL()
			if mediaURL == "" {
				slog.Warn("carousel item has no media url", "shortcode", shortcode, "index", i)
				continue
			}
			ext := "jpg"
			if node.isVideo() {
				ext = "mp4"
			}
			dest := filepath.Join(postDir, fmt.Sprintf("media_%d.%s", i+1, ext))
			if err := c.dl.Download(ctx, mediaURL, dest); err != nil {
				slog.Error("failed to download carousel item", "shortcode", shortcode, "index", i, "error", err)
				continue
			}
			files = append(files, dest)
		}

	case item.isVideo():
		mediaURL := item.bestURL()
		if mediaURL == "" {
			return nil, fmt.Errorf("post %s video has no media url", shortcode)
		}
		dest := filepath.Join(postDir, "video."+extFromURL(mediaURL, "mp4"))
		if err := c.dl.Download(ctx, mediaURL, dest); err != nil {
			return nil, fmt.Errorf("failed to download video: %w", err)
		}
		files = append(files, dest)

	default:
		mediaURL := item.bestURL()
		if mediaURL == "" {
			return nil, fmt.Errorf("post %s image has no media url", shortcode)
		}
		dest := filepath.Join(postDir, "image."+extFromURL(mediaURL, "jpg"))
		if err := c.dl.Download(ctx, mediaURL, dest); err != nil {
			return nil, fmt.Errorf("failed to download image: %w", err)
		}
		files = append(files, dest)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no media downloaded for post %s", shortcode)
	}

	slog.Info("instagram post fetched", "shortcode", shortcode, "files", len(files))
	return files, nil
}

// extFromURL derives a file extension from a media URL's path suffix,
// with a kind-appropriate fallback.
func extFromURL(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" || len(ext) > 4 {
		return fallback
	}
	return strings.ToLower(ext)
}
