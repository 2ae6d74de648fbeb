package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/projetproduits/storefront/internal/errors"
)

// baseClient is the request/response plumbing shared by the auth,
// catalog and ml clients. No retries, no backoff: callers own the
// user-facing reaction to a failure.
type baseClient struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

func newBaseClient(httpClient *http.Client, baseURL string, logger *slog.Logger) baseClient {
	if logger == nil {
		logger = slog.Default()
	}

	return baseClient{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// do issues one JSON request. A nil out discards the response body;
// out of type *[]byte receives it raw for the envelope-aware callers.
func (c *baseClient) do(ctx context.Context, method, path string, body, out any) error {

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.InternalError("Failed to encode request body").WithError(err)
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.InternalError("Failed to build request").WithError(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)

		return errors.ServiceUnavailableError("Service unreachable").WithError(err)
	}

	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.ServiceUnavailableError("Failed to read response").WithError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := serverMessage(payload)
		if message == "" {
			message = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}

		c.logger.Warn("Request rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)

		return errors.NewAppError(codeForStatus(resp.StatusCode), message, resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if raw, ok := out.(*[]byte); ok {
		*raw = payload

		return nil
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return errors.ParseError("Malformed response body").WithError(err)
	}

	return nil
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return errors.ErrCodeBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.ErrCodeUnauthorized
	case http.StatusNotFound:
		return errors.ErrCodeNotFound
	default:
		return errors.ErrCodeThirdPartyError
	}
}
