package platform

import (
	"context"
	"errors"
	"testing"
)

type fakeProber struct {
	key string
	err error
}

func (f *fakeProber) Probe(ctx context.Context, rawURL string) (string, error) {
	return f.key, f.err
}

func TestDetect_KnownHosts(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Platform
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=abc", YouTube},
		{"youtube short link", "https://youtu.be/abc123", YouTube},
		{"youtube music subdomain", "https://music.youtube.com/watch?v=abc", YouTube},
		{"instagram post", "https://www.instagram.com/p/Cxyz/", Instagram},
		{"instagram reel", "https://instagram.com/reel/Cxyz/", Instagram},
		{"tiktok", "https://www.tiktok.com/@user/video/123", TikTok},
		{"facebook", "https://www.facebook.com/watch?v=1", Facebook},
		{"fb watch", "https://fb.watch/abcd/", Facebook},
		{"twitter", "https://twitter.com/user/status/1", Twitter},
		{"x.com", "https://x.com/user/status/1", Twitter},
		{"reddit", "https://www.reddit.com/r/videos/comments/1/", Reddit},
		{"reddit video host", "https://v.redd.it/abc", Reddit},
		{"threads", "https://www.threads.net/@user/post/1", Threads},
		{"pinterest", "https://www.pinterest.com/pin/1/", Pinterest},
		{"pin.it", "https://pin.it/abc", Pinterest},
		{"twitch", "https://clips.twitch.tv/SomeClip", Generic},
		{"vimeo", "https://vimeo.com/12345", Generic},
		{"rumble", "https://rumble.com/v1-clip.html", Generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(context.Background(), tt.url, nil)
			if got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestDetect_PathIndependence(t *testing.T) {
	// Host-rule classification must not depend on path or query content.
	urls := []string{
		"https://www.youtube.com/",
		"https://www.youtube.com/watch?v=abc&t=10s",
		"https://www.youtube.com/playlist?list=PL123",
		"https://www.youtube.com/feed/update/something",
	}
	for _, u := range urls {
		if got := Detect(context.Background(), u, nil); got != YouTube {
			t.Errorf("Detect(%q) = %q, want %q", u, got, YouTube)
		}
	}
}

func TestDetect_LinkedInRequiresPostPath(t *testing.T) {
	post := "https://www.linkedin.com/feed/update/urn:li:activity:123/"
	if got := Detect(context.Background(), post, nil); got != LinkedIn {
		t.Errorf("Detect(%q) = %q, want %q", post, got, LinkedIn)
	}

	profile := "https://www.linkedin.com/in/someone/"
	if got := Detect(context.Background(), profile, nil); got != Unknown {
		t.Errorf("Detect(%q) = %q, want %q", profile, got, Unknown)
	}
}

func TestDetect_ProberFallback(t *testing.T) {
	url := "https://example-video-site.com/clip/1"

	got := Detect(context.Background(), url, &fakeProber{key: "ExampleSite"})
	if got != Platform("Generic (ExampleSite)") {
		t.Errorf("Detect with prober = %q, want %q", got, "Generic (ExampleSite)")
	}
	if !got.IsGeneric() {
		t.Errorf("probed platform %q should be generic", got)
	}

	// Probe failures of any kind are swallowed, never propagated.
	got = Detect(context.Background(), url, &fakeProber{err: errors.New("is not a valid URL")})
	if got != Unknown {
		t.Errorf("Detect with failing prober = %q, want %q", got, Unknown)
	}
}

func TestDetect_MalformedURL(t *testing.T) {
	if got := Detect(context.Background(), "http://%zz", nil); got != Unknown {
		t.Errorf("Detect(malformed) = %q, want %q", got, Unknown)
	}
}

func TestDetect_NoFalseSuffixMatch(t *testing.T) {
	// A host merely ending in the same characters is not a subdomain.
	if got := Detect(context.Background(), "https://notyoutube.com/watch", nil); got != Unknown {
		t.Errorf("Detect(notyoutube.com) = %q, want %q", got, Unknown)
	}
}
