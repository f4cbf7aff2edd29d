package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/craftctl/craftctl/internal/config"
)

// RealClient implements ClusterManager against the Proxmox VE HTTP API.
type RealClient struct {
	baseURL    string
	username   string // realm-qualified, e.g. root@pam
	password   string
	httpClient *http.Client
	timeouts   *config.Timeouts

	mu     sync.Mutex
	ticket *Ticket
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) {
		c.httpClient = hc
	}
}

// WithInsecureTLS disables certificate verification toward the cluster.
func WithInsecureTLS() ClientOption {
	return func(c *RealClient) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
		}
	}
}

// NewRealClient creates a new RealClient for the given cluster.
// host is the API endpoint (host:port); user must be realm-qualified.
func NewRealClient(host, user, password string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		baseURL:    "https://" + host + "/api2/json",
		username:   user,
		password:   password,
		httpClient: &http.Client{},
		timeouts:   config.LoadTimeouts(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig creates a RealClient from a cluster configuration.
func NewClientFromConfig(cfg config.Cluster, opts ...ClientOption) *RealClient {
	if cfg.InsecureSkipVerify {
		opts = append([]ClientOption{WithInsecureTLS()}, opts...)
	}
	return NewRealClient(cfg.Host, cfg.APIUser(), cfg.Password, opts...)
}

// apiEnvelope is the standard {"data": ...} response wrapper.
type apiEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// get performs an authenticated GET and decodes the data envelope into out.
func (c *RealClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// post performs an authenticated POST with form-encoded values.
func (c *RealClient) post(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, form, out)
}

// delete performs an authenticated DELETE.
func (c *RealClient) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do issues one authenticated request. A 401 response invalidates the
// cached ticket so the next operation re-authenticates; the request itself
// is not retried here.
func (c *RealClient) do(ctx context.Context, method, path string, form url.Values, out any) error {
	ticket, err := c.Authenticate(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.HTTPRequest)
	defer cancel()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: "PVEAuthCookie", Value: ticket.Value})
	if method != http.MethodGet {
		req.Header.Set("CSRFPreventionToken", ticket.CSRF)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response for %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateTicket()
		return &AuthError{Status: resp.StatusCode, Message: upstreamMessage(resp, raw)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Path: path, Message: upstreamMessage(resp, raw)}
	}

	if out == nil {
		return nil
	}
	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data for %s: %w", path, err)
	}
	return nil
}

// upstreamMessage extracts the most useful diagnostic from an error
// response: the body when present, otherwise the HTTP status line. The
// upstream text is preserved verbatim for operator diagnosis.
func upstreamMessage(resp *http.Response, raw []byte) string {
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return resp.Status
}

// ensure interface compliance
var _ ClusterManager = (*RealClient)(nil)

// guestPath builds the API path for a guest-scoped endpoint.
func guestPath(inst *Instance, suffix string) string {
	p := fmt.Sprintf("/nodes/%s/%s/%d", inst.Node, inst.Type, inst.VMID)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

// pollInterval returns the fixed task polling interval.
func (c *RealClient) pollInterval() time.Duration {
	return c.timeouts.TaskPollInterval
}
