// Package instagram fetches post media through Instagram's private web API.
// Instagram rejects Go's default TLS fingerprint, so requests ride a
// browser-profile TLS client.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/telegrab/telegrab/internal/downloader"
)

const (
	igBaseURL   = "https://www.instagram.com"
	igAppID     = "936619743392459"
	igUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	loginPageURL = igBaseURL + "/accounts/login/"
	loginAjaxURL = igBaseURL + "/api/v1/web/accounts/login/ajax/"
)

// Client talks to Instagram with a persisted login session.
type Client struct {
	http     tls_client.HttpClient
	dl       *downloader.Downloader
	username string
	password string
	loggedIn bool
}

// New builds a client for the given account. Credentials are only used
// when no persisted session can be loaded.
func New(username, password string, dl *downloader.Downloader) (*Client, error) {
	jar := tls_client.NewCookieJar()
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(60),
		tls_client.WithClientProfile(profiles.DefaultClientProfile),
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithCookieJar(jar),
	}

	c, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	return &Client{
		http:     c,
		dl:       dl,
		username: username,
		password: password,
	}, nil
}

// EnsureLogin loads the persisted session for the account, falling back to
// an interactive credential login whose session is then persisted.
func (c *Client) EnsureLogin(ctx context.Context) error {
	if c.loggedIn {
		return nil
	}

	if err := c.loadSession(); err == nil {
		c.loggedIn = true
		return nil
	}

	if err := c.login(ctx); err != nil {
		return fmt.Errorf("instagram login failed for %s: %w", c.username, err)
	}
	if err := c.saveSession(); err != nil {
		// A failed save only costs a re-login next run.
		slog.Warn("failed to persist instagram session", "username", c.username, "error", err)
	}
	return nil
}

// login performs the web login flow: fetch the login page for a CSRF
// token, then post the browser-format password envelope.
func (c *Client) login(ctx context.Context) error {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, loginPageURL, nil)
	if err != nil {
		return err
	}
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login page request failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	csrf := c.cookieValue("csrftoken")
	if csrf == "" {
		return fmt.Errorf("no csrf token in login page response")
	}

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("enc_password", fmt.Sprintf("#PWD_INSTAGRAM_BROWSER:0:%d:%s", time.Now().Unix(), c.password))
	form.Set("queryParams", "{}")
	form.Set("optIntoOneTap", "false")

	req, err = fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, loginAjaxURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRFToken", csrf)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", loginPageURL)

	resp, err = c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != fhttp.StatusOK {
		return fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Authenticated bool   `json:"authenticated"`
		User          bool   `json:"user"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}
	if !result.Authenticated {
		if !result.User {
			return fmt.Errorf("unknown account %q", c.username)
		}
		return fmt.Errorf("wrong password for %q", c.username)
	}

	c.loggedIn = true
	return nil
}

// apiGet performs an authenticated GET against the web API and decodes the
// JSON response into out.
func (c *Client) apiGet(ctx context.Context, rawURL string, out any) error {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fhttp.StatusOK {
		return fmt.Errorf("api request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse api response: %w", err)
	}
	return nil
}

func (c *Client) setCommonHeaders(req *fhttp.Request) {
	req.Header.Set("User-Agent", igUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("X-IG-App-ID", igAppID)
}

func (c *Client) cookieValue(name string) string {
	u, _ := url.Parse(igBaseURL)
	for _, cookie := range c.http.GetCookies(u) {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
