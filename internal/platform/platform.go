package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Platform is the label shown to the user and used to pick a handler.
type Platform string

const (
	YouTube   Platform = "YouTube"
	Instagram Platform = "Instagram"
	TikTok    Platform = "TikTok"
	Facebook  Platform = "Facebook"
	Twitter   Platform = "Twitter/X"
	Reddit    Platform = "Reddit"
	Threads   Platform = "Threads"
	Pinterest Platform = "Pinterest"
	LinkedIn  Platform = "LinkedIn"
	Generic   Platform = "Generic"
	Unknown   Platform = "Unknown"
)

// Prober asks the extraction library whether it recognizes a URL without
// downloading anything. It returns the extractor key on success.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (string, error)
}

// hostRule maps a host suffix to a platform. Rules are evaluated in order,
// exact platform matches before the generic group.
type hostRule struct {
	suffix   string
	platform Platform
}

var hostRules = []hostRule{
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
	{"instagram.com", Instagram},
	{"tiktok.com", TikTok},
	{"facebook.com", Facebook},
	{"fb.watch", Facebook},
	{"twitter.com", Twitter},
	{"x.com", Twitter},
	{"reddit.com", Reddit},
	{"v.redd.it", Reddit},
	{"threads.net", Threads},
	{"pinterest.com", Pinterest},
	{"pin.it", Pinterest},
}

// genericHosts are platforms handled by the extraction library without a
// dedicated flow of their own.
var genericHosts = []string{
	"twitch.tv",
	"vimeo.com",
	"streamable.com",
	"bilibili.tv",
	"bilibili.com",
	"odysee.com",
	"rumble.com",
}

// Detect classifies a raw URL into a platform label. Static host rules are
// checked first; if none match and a prober is supplied, the extraction
// library is asked whether it recognizes the URL at all. Probe failures of
// any kind, including malformed input, are swallowed and reported as Unknown.
func Detect(ctx context.Context, rawURL string, prober Prober) Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Unknown
	}

	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.Path)

	for _, rule := range hostRules {
		if hostMatches(host, rule.suffix) {
			return rule.platform
		}
	}

	// LinkedIn only hosts downloadable media on post permalinks.
	if hostMatches(host, "linkedin.com") && strings.Contains(path, "/feed/update/") {
		return LinkedIn
	}

	for _, g := range genericHosts {
		if strings.Contains(host, g) {
			return Generic
		}
	}

	if prober != nil {
		key, err := prober.Probe(ctx, rawURL)
		if err == nil && key != "" {
			return Platform(fmt.Sprintf("%s (%s)", Generic, key))
		}
	}

	return Unknown
}

// IsGeneric reports whether the platform goes through the extraction-library
// quality-picker flow. YouTube shares that flow.
func (p Platform) IsGeneric() bool {
	return p == Generic || strings.HasPrefix(string(p), string(Generic)+" (")
}

func hostMatches(host, suffix string) bool {
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}
