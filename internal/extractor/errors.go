package extractor

import (
	"errors"
	"strings"
)

// Kind classifies extraction failures so callers never have to match on
// message text themselves.
type Kind int

const (
	// KindExtraction is the generic extraction failure.
	KindExtraction Kind = iota
	// KindRestricted covers private, copyrighted or otherwise unavailable content.
	KindRestricted
	// KindUnsupported means the extraction library does not recognize the URL.
	KindUnsupported
	// KindNetwork covers connectivity failures talking to the source.
	KindNetwork
)

// Error is the structured failure returned by the extraction boundary.
// Diag carries the raw library output as an opaque diagnostic only.
type Error struct {
	Kind Kind
	Diag string
	err  error
}

func (e *Error) Error() string {
	if e.Diag != "" {
		return e.Diag
	}
	if e.err != nil {
		return e.err.Error()
	}
	return "extraction failed"
}

func (e *Error) Unwrap() error { return e.err }

// classify buckets a library failure into a Kind from its output. The
// substring matching lives here, behind the boundary, so callers only
// ever see Kind.
func classify(output string, err error) *Error {
	e := &Error{Kind: KindExtraction, Diag: strings.TrimSpace(output), err: err}
	lower := strings.ToLower(output)
	if lower == "" && err != nil {
		lower = strings.ToLower(err.Error())
		e.Diag = err.Error()
	}

	switch {
	case strings.Contains(lower, "copyright"),
		strings.Contains(lower, "private video"),
		strings.Contains(lower, "sign in to confirm"),
		strings.Contains(lower, "age-restricted"):
		e.Kind = KindRestricted
	case strings.Contains(lower, "unsupported url"),
		strings.Contains(lower, "is not a valid url"):
		e.Kind = KindUnsupported
	case strings.Contains(lower, "unable to download"),
		strings.Contains(lower, "connection"),
		strings.Contains(lower, "timed out"),
		strings.Contains(lower, "temporary failure in name resolution"):
		e.Kind = KindNetwork
	}
	return e
}

// KindOf returns the Kind for err, or KindExtraction when err is not an
// extractor Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindExtraction
}
