package bot

import (
	"fmt"
	"strings"
)

// Callback payloads carry "formatID|originalURL". Format identifiers never
// contain a pipe, so splitting on the first one is unambiguous.

func encodePayload(formatID, url string) string {
	return formatID + "|" + url
}

func decodePayload(data string) (formatID, url string, err error) {
	parts := strings.SplitN(data, "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed callback payload %q", data)
	}
	return parts[0], parts[1], nil
}
