// Package planapi is the HTTP plan store used by editing sessions that talk to a
// remote budget plan service.
package planapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_planner/internal/core/ports/repositories"
	"github.com/SscSPs/budget_planner/internal/dto"
)

const defaultTimeout = 15 * time.Second

// StatusError is a response the plan store could not interpret as success or absence.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("plan service responded %d", e.StatusCode)
	}
	return fmt.Sprintf("plan service responded %d: %s", e.StatusCode, e.Message)
}

// Client implements the PlanStore port against the /budget-plans API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API rooted at baseURL (e.g. http://host/api/v1)
// that authenticates with the bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ portsrepo.PlanStore = (*Client)(nil)

// Fetch returns the reconciled plan for period, or apperrors.ErrNotFound.
func (c *Client) Fetch(ctx context.Context, period domain.PeriodKey) (*domain.BudgetPlan, error) {
	var resp dto.BudgetPlanResponse
	if err := c.do(ctx, http.MethodGet, period, nil, &resp); err != nil {
		return nil, err
	}
	plan := resp.ToDomain()
	return &plan, nil
}

// Create stores the first plan for period. An existing plan yields apperrors.ErrDuplicate.
func (c *Client) Create(ctx context.Context, period domain.PeriodKey, doc domain.PlanDocument) error {
	return c.do(ctx, http.MethodPost, period, dto.NewSavePlanRequest(doc), nil)
}

// Update replaces the plan for period. A missing plan yields apperrors.ErrNotFound.
func (c *Client) Update(ctx context.Context, period domain.PeriodKey, doc domain.PlanDocument) error {
	return c.do(ctx, http.MethodPut, period, dto.NewSavePlanRequest(doc), nil)
}

// Delete removes the plan for period. A missing plan yields apperrors.ErrNotFound.
func (c *Client) Delete(ctx context.Context, period domain.PeriodKey) error {
	return c.do(ctx, http.MethodDelete, period, nil, nil)
}

func (c *Client) planURL(period domain.PeriodKey) string {
	return fmt.Sprintf("%s/budget-plans/%d/%d", c.baseURL, period.Year, period.Month)
}

func (c *Client) do(ctx context.Context, method string, period domain.PeriodKey, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.planURL(period), reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, period, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("plan %s: %w", period, apperrors.ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("plan %s: %w", period, apperrors.ErrDuplicate)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	return nil
}

// errorMessage extracts the {"error": "..."} body written by the service.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
