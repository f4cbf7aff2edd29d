package dhcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/craftctl/craftctl/internal/config"
	"github.com/craftctl/craftctl/internal/util/retry"
)

// RouterClient talks to the companion router service that fronts the site
// router's DHCP configuration.
type RouterClient struct {
	baseURL    string
	router     config.Router
	httpClient *http.Client
	timeouts   *config.Timeouts
}

// NewRouterClient creates a client for the companion router service.
func NewRouterClient(cfg config.Router, timeouts *config.Timeouts) *RouterClient {
	return &RouterClient{
		baseURL:    cfg.URL,
		router:     cfg,
		httpClient: http.DefaultClient,
		timeouts:   timeouts,
	}
}

// WithHTTPClient overrides the HTTP client (useful for testing).
func (c *RouterClient) WithHTTPClient(hc *http.Client) *RouterClient {
	c.httpClient = hc
	return c
}

type routerRequest struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
	UseHTTPS bool   `json:"useHttps"`
	MAC      string `json:"mac,omitempty"`
	IP       string `json:"ip,omitempty"`
	Name     string `json:"name,omitempty"`
}

type routerResponse struct {
	Success      bool          `json:"success"`
	Error        string        `json:"error"`
	Reservations []routerEntry `json:"reservations"`
	// Staticlist carries the raw dhcp_staticlist string on router service
	// versions that do not parse it server-side.
	Staticlist string `json:"staticlist"`
}

type routerEntry struct {
	MAC  string `json:"mac"`
	IP   string `json:"ip"`
	Name string `json:"name"`
}

// ListReservations fetches the current DHCP reservations from the router.
func (c *RouterClient) ListReservations(ctx context.Context) ([]Reservation, error) {
	var resp routerResponse
	if err := c.post(ctx, "/dhcp-reservations", routerRequest{
		Host:     c.router.Host,
		Username: c.router.Username,
		Password: c.router.Password,
		UseHTTPS: c.router.UseHTTPS,
	}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Reservations) == 0 && resp.Staticlist != "" {
		return ParseStaticlist(resp.Staticlist), nil
	}

	reservations := make([]Reservation, 0, len(resp.Reservations))
	for _, e := range resp.Reservations {
		reservations = append(reservations, Reservation{MAC: e.MAC, IP: e.IP, Name: e.Name})
	}
	return reservations, nil
}

// Reserve upserts a reservation on the router. Transient push failures are
// retried with backoff: unlike the cluster orchestrator, re-sending a
// reservation is idempotent and safe.
func (c *RouterClient) Reserve(ctx context.Context, res Reservation) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		var resp routerResponse
		return c.post(ctx, "/dhcp-reservation", routerRequest{
			Host:     c.router.Host,
			Username: c.router.Username,
			Password: c.router.Password,
			UseHTTPS: c.router.UseHTTPS,
			MAC:      res.MAC,
			IP:       res.IP,
			Name:     res.Name,
		}, &resp)
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
}

func (c *RouterClient) post(ctx context.Context, path string, body routerRequest, out *routerResponse) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.HTTPRequest)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("router service request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read router service response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode router service response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || (out.Error != "" && !out.Success) {
		msg := out.Error
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("router service rejected %s: %s", path, msg)
	}
	return nil
}
