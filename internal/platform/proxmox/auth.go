package proxmox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/craftctl/craftctl/internal/metrics"
)

// Authenticate returns a valid API ticket, reusing the cached one when
// present. On failure nothing is cached, so a subsequent call with corrected
// credentials starts clean. Concurrent callers may both find the slot empty
// and authenticate twice; the second result simply replaces the first.
func (c *RealClient) Authenticate(ctx context.Context) (*Ticket, error) {
	c.mu.Lock()
	cached := c.ticket
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.HTTPRequest)
	defer cancel()

	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/access/ticket", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authentication request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read authentication response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Status: resp.StatusCode, Message: upstreamMessage(resp, raw)}
	}

	var envelope struct {
		Data struct {
			Ticket   string `json:"ticket"`
			CSRF     string `json:"CSRFPreventionToken"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode authentication response: %w", err)
	}
	if envelope.Data.Ticket == "" {
		return nil, &AuthError{Status: resp.StatusCode, Message: "no ticket in response"}
	}

	ticket := &Ticket{
		Value:    envelope.Data.Ticket,
		CSRF:     envelope.Data.CSRF,
		Username: envelope.Data.Username,
	}
	c.mu.Lock()
	c.ticket = ticket
	c.mu.Unlock()
	metrics.AuthRefreshes.Inc()
	return ticket, nil
}

// invalidateTicket clears the credential slot after a 401-class response.
// The next operation re-authenticates.
func (c *RealClient) invalidateTicket() {
	c.mu.Lock()
	c.ticket = nil
	c.mu.Unlock()
}
