// Package remote talks to the floor backend over its REST API. Client
// implements floor.RemoteStore so a floor.Manager can run against a live
// server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend answered %d", e.Code)
	}
	return fmt.Sprintf("backend answered %d: %s", e.Code, e.Message)
}

// envelope mirrors utils.JSONResponse.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logrus.Logger
}

var _ floor.RemoteStore = (*Client)(nil)

// New returns a Client for the backend at baseURL. A nil log discards output.
func New(baseURL, token string, timeout time.Duration, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) Token() string { return c.token }

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
		Role  string `json:"user_role"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	c.log.WithField("role", out.Role).Debug("logged in")
	return out.Role, nil
}

func (c *Client) ListZones(ctx context.Context) ([]floor.Zone, error) {
	var zones []floor.Zone
	err := c.do(ctx, http.MethodGet, "/admin/zones", nil, &zones)
	return zones, err
}

func (c *Client) ListTables(ctx context.Context) ([]floor.RawTable, error) {
	var tables []floor.RawTable
	err := c.do(ctx, http.MethodGet, "/admin/tables", nil, &tables)
	return tables, err
}

func (c *Client) CreateTable(ctx context.Context, in floor.TableInput) (floor.RawTable, error) {
	var t floor.RawTable
	err := c.do(ctx, http.MethodPost, "/admin/tables", in, &t)
	return t, err
}

func (c *Client) UpdateTable(ctx context.Context, id int64, patch floor.TablePatch) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/tables/%d", id), patch, nil)
}

func (c *Client) DeleteTable(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/tables/%d", id), nil, nil)
}

func (c *Client) DeleteTables(ctx context.Context, ids []int64) error {
	return c.do(ctx, http.MethodPost, "/admin/tables/bulk-delete", map[string][]int64{"ids": ids}, nil)
}

func (c *Client) CreateZone(ctx context.Context, name string) (floor.Zone, error) {
	var z floor.Zone
	err := c.do(ctx, http.MethodPost, "/admin/zones", map[string]string{"name": name}, &z)
	return z, err
}

func (c *Client) UpdateZone(ctx context.Context, id int64, patch floor.ZonePatch) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/admin/zones/%d", id), patch, nil)
}

func (c *Client) DeleteZone(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/zones/%d", id), nil, nil)
}

func (c *Client) DeleteZoneCascade(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/zones/%d/cascade", id), nil, nil)
}

func (c *Client) MoveTablesToZone(ctx context.Context, fromID, toID int64) error {
	body := map[string]int64{"to_zone_id": toID}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/zones/%d/move", fromID), body, nil)
}

func (c *Client) MigrateTablesToNewZone(ctx context.Context, fromID int64, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/zones/%d/migrate", fromID), body, nil)
}

// do sends body as JSON and decodes the data field of the answer into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"method": method, "path": path}).WithError(err).Warn("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("backend call")

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		if resp.StatusCode >= 300 {
			return &StatusError{Code: resp.StatusCode}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}
