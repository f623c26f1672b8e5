package extractor

import "fmt"

// MediaInfo contains metadata resolved for a URL without downloading.
type MediaInfo struct {
	ID       string
	Title    string
	Uploader string
	Duration float64 // seconds
	Formats  []Format
}

// Format describes one downloadable rendition of a media item, as supplied
// by the extraction library. URL and Protocol are kept because the delivery
// step decides between direct hand-off and local materialization from them.
type Format struct {
	ID             string  `json:"format_id"`
	Ext            string  `json:"ext"`
	FormatNote     string  `json:"format_note"`
	Height         int     `json:"height"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	URL            string  `json:"url"`
	Protocol       string  `json:"protocol"`
	TBR            float64 `json:"tbr"`
}

// HasVideo reports whether the format carries a video stream.
func (f *Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the format carries an audio stream.
func (f *Format) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// SizeMB returns the (possibly approximate) filesize in megabytes.
func (f *Format) SizeMB() float64 {
	size := f.Filesize
	if size == 0 {
		size = f.FilesizeApprox
	}
	return float64(size) / (1024 * 1024)
}

// ResLabel returns the human-readable resolution label for the format.
func (f *Format) ResLabel() string {
	if f.FormatNote != "" {
		return f.FormatNote
	}
	if f.Height > 0 {
		return fmt.Sprintf("%dp", f.Height)
	}
	return "video"
}
