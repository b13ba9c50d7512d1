// Package provider implements the per-game fallback code suppliers, used only
// when local inventory is exhausted. Each client speaks one provider's fixed
// query-parameter contract and tolerates the three response shapes the
// providers are known to emit: structured success, structured failure, and
// diagnostic-prefixed or bare plain text.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/recharge-store-backend/internal/config"
	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/inventory"
)

// ErrUnavailable covers every way a provider can fail to hand over a code:
// network errors, timeouts, non-success statuses, failure payloads and
// unparseable bodies. Callers see "no code available", never a fault.
var ErrUnavailable = errors.New("provider unavailable")

const maxResponseBytes = 64 << 10

// Client fetches a single-use code for one game from its provider
type Client interface {
	FetchCode(ctx context.Context, denomination int) (string, error)
}

// HTTPClient is the HTTPS implementation of Client for one game's provider
type HTTPClient struct {
	variant  *game.Variant
	endpoint config.ProviderEndpoint
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPClient creates a provider client for the given game variant.
// The timeout bounds the whole call; there are no retries.
func NewHTTPClient(logger *slog.Logger, variant *game.Variant, endpoint config.ProviderEndpoint, cfg *config.ProviderConfig) *HTTPClient {
	return &HTTPClient{
		variant:  variant,
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// FetchCode performs one provider call for the given denomination. Unmapped
// denominations fail closed without touching the network.
func (c *HTTPClient) FetchCode(ctx context.Context, denomination int) (string, error) {
	product, ok := c.variant.ProviderProducts[denomination]
	if !ok {
		return "", fmt.Errorf("no provider product for %s denomination %d: %w", c.variant.Type, denomination, ErrUnavailable)
	}

	reqURL, err := url.Parse(c.endpoint.URL)
	if err != nil {
		return "", fmt.Errorf("bad provider URL: %w", ErrUnavailable)
	}
	params := reqURL.Query()
	params.Set("username", c.endpoint.Username)
	params.Set("password", c.endpoint.Password)
	params.Set("action", c.endpoint.Operation)
	params.Set("product", product)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", ErrUnavailable)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Provider call failed", "game", string(c.variant.Type), "product", product, "error", err)
		return "", fmt.Errorf("provider call failed: %w", ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Provider returned non-success status", "game", string(c.variant.Type), "status", resp.StatusCode)
		return "", fmt.Errorf("provider status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", ErrUnavailable)
	}

	code, err := parseResponse(body)
	if err != nil {
		c.logger.Warn("Provider response rejected", "game", string(c.variant.Type), "product", product, "error", err)
		return "", err
	}

	return code, nil
}

// structuredResponse covers both structured shapes: success carries a status
// flag and a code field (some providers call it pin), failure a status flag
// and a message.
type structuredResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Pin     string `json:"pin"`
	Message string `json:"message"`
}

// parseResponse extracts a code from any of the three provider response
// shapes. A candidate is accepted only if its normalized length is plausible.
func parseResponse(body []byte) (string, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", fmt.Errorf("empty provider response: %w", ErrUnavailable)
	}

	var structured structuredResponse
	if err := json.Unmarshal([]byte(trimmed), &structured); err == nil && structured.Status != "" {
		switch strings.ToLower(structured.Status) {
		case "success", "ok", "1", "true":
			candidate := structured.Code
			if candidate == "" {
				candidate = structured.Pin
			}
			return acceptCandidate(candidate)
		default:
			return "", fmt.Errorf("provider failure: %s: %w", structured.Message, ErrUnavailable)
		}
	}

	// Plain text: skip diagnostic warning lines and take the first line that
	// looks like a code. Free-form lines additionally have to be made of code
	// characters, so prose never passes as a code.
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isDiagnosticLine(line) || !looksLikeCode(line) {
			continue
		}
		if code, err := acceptCandidate(line); err == nil {
			return code, nil
		}
	}

	return "", fmt.Errorf("no plausible code in provider response: %w", ErrUnavailable)
}

func isDiagnosticLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "warning") ||
		strings.HasPrefix(lower, "notice") ||
		strings.HasPrefix(lower, "deprecated") ||
		strings.HasPrefix(lower, "#")
}

// acceptCandidate normalizes a candidate code and enforces the length window.
// A structured response already points at its code field, so anything of
// plausible length is taken at face value.
func acceptCandidate(candidate string) (string, error) {
	normalized := inventory.Normalize(candidate)
	if len(normalized) < inventory.MinCodeLength || len(normalized) > inventory.MaxCodeLength {
		return "", fmt.Errorf("implausible code length %d: %w", len(normalized), ErrUnavailable)
	}
	return normalized, nil
}

// looksLikeCode reports whether a free-form text line is made entirely of
// code characters
func looksLikeCode(line string) bool {
	for _, r := range inventory.Normalize(line) {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
