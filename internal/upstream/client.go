// Package upstream provides the HTTP client for the monitoring platform's
// alert-listing REST API. The wire format is owned by the platform, not by
// this service: the client only builds requests and decodes pages.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"alertview-go/internal/config"
	"alertview-go/internal/domain"
)

// alertsPath is the listing endpoint, relative to the configured base URL.
const alertsPath = "/alert/alerts"

// sortOrder fixes the upstream sort for stable pagination. The cursor is
// not safe to walk under any other ordering.
const sortOrder = "+resourceId"

// ErrUnexpectedStatus is returned when the upstream responds with a
// non-2xx status. Wrapped errors carry the status code and a body snippet.
var ErrUnexpectedStatus = errors.New("unexpected upstream status")

// Client talks to the upstream alert API.
type Client struct {
	baseURL    string
	token      string
	account    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an upstream client from configuration. Each request is
// bounded by the configured fetch timeout; there is no automatic retry, a
// failed page is fatal to the caller's run.
func NewClient(cfg *config.UpstreamConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.BearerToken,
		account:    cfg.Account,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		logger: logger,
	}
}

// ListAlerts fetches one page of alerts matching the query, starting at
// the given offset. The returned page carries the upstream total with its
// sign convention intact.
func (c *Client) ListAlerts(ctx context.Context, query domain.AlertQuery, offset, size int) (*domain.AlertPage, error) {
	reqURL, err := c.buildURL(query, offset, size)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build alert request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Account", c.account)
	req.Header.Set("X-Version", c.apiVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alert request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("upstream returned non-success status",
			"status", resp.StatusCode,
			"offset", offset,
		)
		return nil, fmt.Errorf("%w: %d %s: %s",
			ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode), snippet)
	}

	var page domain.AlertPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode alert page: %w", err)
	}

	c.logger.Debug("fetched alert page",
		"offset", offset,
		"items", len(page.Items),
		"total", page.Total,
	)
	return &page, nil
}

// buildURL assembles the listing URL with pagination, ordering and the
// query's filter expression.
func (c *Client) buildURL(query domain.AlertQuery, offset, size int) (string, error) {
	u, err := url.Parse(c.baseURL + alertsPath)
	if err != nil {
		return "", fmt.Errorf("invalid upstream base URL: %w", err)
	}

	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("size", strconv.Itoa(size))
	params.Set("sort", sortOrder)
	params.Set("filter", query.FilterExpression())
	u.RawQuery = params.Encode()

	return u.String(), nil
}
