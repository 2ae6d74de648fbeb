package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/projetproduits/storefront/internal/errors"
	"github.com/projetproduits/storefront/internal/models"
)

// AuthClient wraps the index auth service.
type AuthClient struct {
	baseClient
}

func NewAuthClient(baseURL string, timeout time.Duration, token TokenSource, logger *slog.Logger) *AuthClient {
	httpClient := NewHTTPClient("auth", timeout, token)

	return &AuthClient{baseClient: newBaseClient(httpClient, baseURL, logger)}
}

// authEnvelope is the auth service's uniform response wrapper.
type authEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *models.AuthPayload `json:"data"`
}

func (c *AuthClient) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthPayload, error) {
	return c.authCall(ctx, "/auth/login", req)
}

func (c *AuthClient) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthPayload, error) {
	return c.authCall(ctx, "/auth/register", req)
}

func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*models.AuthPayload, error) {
	return c.authCall(ctx, "/auth/refresh", &models.RefreshRequest{RefreshToken: refreshToken})
}

func (c *AuthClient) authCall(ctx context.Context, path string, body any) (*models.AuthPayload, error) {

	var envelope authEnvelope

	if err := c.do(ctx, http.MethodPost, path, body, &envelope); err != nil {
		return nil, err
	}

	if !envelope.Success || envelope.Data == nil {
		message := envelope.Message
		if message == "" {
			message = "Authentication failed"
		}

		return nil, errors.UnauthorizedError(message)
	}

	return envelope.Data, nil
}

func (c *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", &models.RefreshRequest{RefreshToken: refreshToken}, nil)
}

func (c *AuthClient) Validate(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth/validate", nil, nil)
}

// DeleteUserByEmail removes the auth-service record paired with a
// catalog user. Admin-only on the server side.
func (c *AuthClient) DeleteUserByEmail(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodDelete, "/auth/users/email/"+url.PathEscape(email), nil, nil)
}
