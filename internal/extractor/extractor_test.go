package extractor

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormatStreamFlags(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		hasVideo bool
		hasAudio bool
	}{
		{"combined", Format{VCodec: "avc1", ACodec: "mp4a"}, true, true},
		{"video only", Format{VCodec: "vp9", ACodec: "none"}, true, false},
		{"audio only", Format{VCodec: "none", ACodec: "opus"}, false, true},
		{"codecs missing", Format{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.HasVideo(); got != tt.hasVideo {
				t.Errorf("HasVideo = %v, want %v", got, tt.hasVideo)
			}
			if got := tt.format.HasAudio(); got != tt.hasAudio {
				t.Errorf("HasAudio = %v, want %v", got, tt.hasAudio)
			}
		})
	}
}

func TestFormatSizeMB(t *testing.T) {
	f := Format{Filesize: 5 * 1024 * 1024}
	if got := f.SizeMB(); got != 5 {
		t.Errorf("SizeMB = %v, want 5", got)
	}

	// Approximate size is the fallback when the exact one is absent.
	f = Format{FilesizeApprox: 2 * 1024 * 1024}
	if got := f.SizeMB(); got != 2 {
		t.Errorf("SizeMB from approx = %v, want 2", got)
	}
}

func TestFormatResLabel(t *testing.T) {
	if got := (&Format{FormatNote: "720p60"}).ResLabel(); got != "720p60" {
		t.Errorf("ResLabel = %q", got)
	}
	if got := (&Format{Height: 480}).ResLabel(); got != "480p" {
		t.Errorf("ResLabel = %q", got)
	}
	if got := (&Format{}).ResLabel(); got != "video" {
		t.Errorf("ResLabel = %q", got)
	}
}

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		output string
		want   Kind
	}{
		{"ERROR: This video contains content from X, who has blocked it on copyright grounds", KindRestricted},
		{"ERROR: Private video. Sign in if you've been granted access", KindRestricted},
		{"ERROR: Unsupported URL: https://example.com", KindUnsupported},
		{"'htp://x' is not a valid URL", KindUnsupported},
		{"ERROR: Unable to download webpage: connection reset", KindNetwork},
		{"something else entirely", KindExtraction},
	}

	for _, tt := range tests {
		got := classify(tt.output, errors.New("exit status 1"))
		if got.Kind != tt.want {
			t.Errorf("classify(%q).Kind = %v, want %v", tt.output, got.Kind, tt.want)
		}
	}
}

func TestClassify_DiagIsOpaque(t *testing.T) {
	e := classify("ERROR: boom", errors.New("exit status 1"))
	if e.Diag != "ERROR: boom" {
		t.Errorf("Diag = %q, want the raw output", e.Diag)
	}
	if e.Error() != "ERROR: boom" {
		t.Errorf("Error() = %q", e.Error())
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", classify("ERROR: Unsupported URL: x", nil))
	if got := KindOf(err); got != KindUnsupported {
		t.Errorf("KindOf(wrapped) = %v, want KindUnsupported", got)
	}
	if got := KindOf(errors.New("plain")); got != KindExtraction {
		t.Errorf("KindOf(plain) = %v, want KindExtraction", got)
	}
}

func TestParseInfoJSON(t *testing.T) {
	stdout := `
{"id":"abc","title":"A Video","extractor_key":"Youtube","formats":[{"format_id":"22","ext":"mp4","height":720,"vcodec":"avc1","acodec":"mp4a","filesize":5242880,"url":"https://cdn.example/v.mp4","protocol":"https"}]}
`
	info, err := parseInfoJSON(stdout)
	if err != nil {
		t.Fatal(err)
	}
	if info.Title != "A Video" || info.ExtractorKey != "Youtube" {
		t.Errorf("parsed info = %+v", info)
	}
	if len(info.Formats) != 1 || info.Formats[0].ID != "22" || info.Formats[0].Height != 720 {
		t.Errorf("parsed formats = %+v", info.Formats)
	}
}

func TestParseInfoJSON_SkipsNoise(t *testing.T) {
	stdout := "WARNING: some deprecation notice\n{\"id\":\"x\",\"title\":\"T\"}\n"
	info, err := parseInfoJSON(stdout)
	if err != nil {
		t.Fatal(err)
	}
	if info.ID != "x" {
		t.Errorf("parsed id = %q", info.ID)
	}
}

func TestParseInfoJSON_Empty(t *testing.T) {
	if _, err := parseInfoJSON("  \n "); err == nil {
		t.Error("expected error for empty output")
	}
	if _, err := parseInfoJSON("not json at all"); err == nil {
		t.Error("expected error for undecodable output")
	}
}
