package bot

import "testing"

func TestPayloadRoundTrip(t *testing.T) {
	data := encodePayload("22", "https://www.youtube.com/watch?v=abc")
	if data != "22|https://www.youtube.com/watch?v=abc" {
		t.Fatalf("encoded payload = %q", data)
	}

	formatID, url, err := decodePayload(data)
	if err != nil {
		t.Fatal(err)
	}
	if formatID != "22" || url != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("decoded (%q, %q)", formatID, url)
	}
}

func TestDecodePayload_URLWithQueryPipeSafe(t *testing.T) {
	// Only the first pipe separates the fields; the URL side keeps any
	// later pipes intact.
	formatID, url, err := decodePayload("137|https://a.example/v?x=1|2")
	if err != nil {
		t.Fatal(err)
	}
	if formatID != "137" || url != "https://a.example/v?x=1|2" {
		t.Errorf("decoded (%q, %q)", formatID, url)
	}
}

func TestDecodePayload_Malformed(t *testing.T) {
	for _, data := range []string{"", "22", "|", "22|", "|https://a.example"} {
		if _, _, err := decodePayload(data); err == nil {
			t.Errorf("decodePayload(%q) should fail", data)
		}
	}
}
