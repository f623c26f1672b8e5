// Package quality builds the user-facing format option list from raw
// extractor metadata and decides whether a chosen format can be handed off
// to the chat transport by URL.
package quality

import (
	"fmt"
	"sort"

	"github.com/telegrab/telegrab/internal/extractor"
)

const (
	// MaxOptions caps the option list so the inline keyboard stays usable.
	MaxOptions = 10

	// minSizeMB filters out zero-byte placeholder entries the extractor
	// sometimes reports.
	minSizeMB = 0.01
)

// Option pairs a user-facing label with the opaque format identifier that
// rides in the callback payload.
type Option struct {
	ID    string
	Label string
}

// BuildOptions turns raw format descriptors into the presented option list:
// below-floor sizes dropped, only video-bearing formats kept, combined and
// video-only formats labeled distinguishably, sorted by height descending,
// capped at MaxOptions.
func BuildOptions(formats []extractor.Format) []Option {
	type candidate struct {
		opt    Option
		height int
	}

	var candidates []candidate
	for i := range formats {
		f := &formats[i]
		if f.SizeMB() < minSizeMB {
			continue
		}
		if !f.HasVideo() {
			continue
		}

		var label string
		if f.HasAudio() {
			label = fmt.Sprintf("%s (%s, %.2fMB)", f.ResLabel(), f.Ext, f.SizeMB())
		} else {
			label = fmt.Sprintf("%s (V-Only, %s, %.2fMB)", f.ResLabel(), f.Ext, f.SizeMB())
		}

		candidates = append(candidates, candidate{
			opt:    Option{ID: f.ID, Label: label},
			height: f.Height,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].height > candidates[j].height
	})

	if len(candidates) > MaxOptions {
		candidates = candidates[:MaxOptions]
	}

	opts := make([]Option, len(candidates))
	for i, c := range candidates {
		opts[i] = c.opt
	}
	return opts
}

// manifestProtocols are transports known to resist direct URL hand-off.
var manifestProtocols = map[string]bool{
	"m3u8":        true,
	"m3u8_native": true,
	"dash":        true,
}

// DirectEligible reports whether a format can be attempted as a direct
// remote-URL hand-off: it must have a retrievable URL, carry both streams,
// and not ride a manifest-style protocol.
func DirectEligible(f *extractor.Format) bool {
	if f == nil || f.URL == "" {
		return false
	}
	if !f.HasVideo() || !f.HasAudio() {
		return false
	}
	return !manifestProtocols[f.Protocol]
}
