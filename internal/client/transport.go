package client

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/projetproduits/storefront/internal/metrics"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenSource yields the current access token, or "" when anonymous.
// The session manager owns the token; clients only read it per request.
type TokenSource func() string

type bearerTransport struct {
	next  http.RoundTripper
	token TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {

	// RoundTrippers must not mutate the caller's request
	req = req.Clone(req.Context())

	if t.token != nil {
		if token := t.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	return t.next.RoundTrip(req)
}

// NewHTTPClient builds the client used for one backend service:
// bearer injection over request metrics over otel trace propagation.
func NewHTTPClient(service string, timeout time.Duration, token TokenSource) *http.Client {

	var transport http.RoundTripper = otelhttp.NewTransport(http.DefaultTransport)
	transport = metrics.InstrumentTransport(service, transport)
	transport = &bearerTransport{next: transport, token: token}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
