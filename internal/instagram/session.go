package instagram

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
)

// sessionDir returns where account sessions live: ~/.config/telegrab/instagram/
func sessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", "telegrab", "instagram")
}

// sessionFile is the per-account session path, named after the account
// identifier.
func sessionFile(username string) string {
	return filepath.Join(sessionDir(), username+".json")
}

type sessionCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Domain  string    `json:"domain"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires"`
}

type sessionData struct {
	Username string          `json:"username"`
	SavedAt  time.Time       `json:"saved_at"`
	Cookies  []sessionCookie `json:"cookies"`
}

// saveSession persists the current cookie jar for the account.
func (c *Client) saveSession() error {
	u, _ := url.Parse(igBaseURL)

	data := sessionData{
		Username: c.username,
		SavedAt:  time.Now(),
	}
	for _, cookie := range c.http.GetCookies(u) {
		data.Cookies = append(data.Cookies, sessionCookie{
			Name:    cookie.Name,
			Value:   cookie.Value,
			Domain:  cookie.Domain,
			Path:    cookie.Path,
			Expires: cookie.Expires,
		})
	}

	if err := os.MkdirAll(sessionDir(), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(sessionFile(c.username), out, 0600)
}

// loadSession restores a previously persisted session into the cookie jar.
// It fails when the file is absent, unparsable, or misses the session
// cookie; the caller then falls back to a credential login.
func (c *Client) loadSession() error {
	raw, err := os.ReadFile(sessionFile(c.username))
	if err != nil {
		return fmt.Errorf("no session file for %s: %w", c.username, err)
	}

	var data sessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("corrupt session file for %s: %w", c.username, err)
	}

	var cookies []*fhttp.Cookie
	hasSessionID := false
	for _, sc := range data.Cookies {
		if sc.Name == "sessionid" && sc.Value != "" {
			hasSessionID = true
		}
		cookies = append(cookies, &fhttp.Cookie{
			Name:    sc.Name,
			Value:   sc.Value,
			Domain:  sc.Domain,
			Path:    sc.Path,
			Expires: sc.Expires,
		})
	}
	if !hasSessionID {
		return fmt.Errorf("session file for %s has no session cookie", c.username)
	}

	u, _ := url.Parse(igBaseURL)
	c.http.SetCookies(u, cookies)
	return nil
}
