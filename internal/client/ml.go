package client

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/projetproduits/storefront/internal/models"
)

// MLClient wraps the classification microservice that tags products
// with a predicted audience.
type MLClient struct {
	baseClient
}

func NewMLClient(baseURL string, timeout time.Duration, token TokenSource, logger *slog.Logger) *MLClient {
	httpClient := NewHTTPClient("ml", timeout, token)

	return &MLClient{baseClient: newBaseClient(httpClient, baseURL, logger)}
}

func (c *MLClient) Predict(ctx context.Context, req *models.PredictRequest) (*models.Prediction, error) {
	var prediction models.Prediction

	if err := c.do(ctx, http.MethodPost, "/predict", req, &prediction); err != nil {
		return nil, err
	}

	return &prediction, nil
}

// PredictAndSave classifies the product server-side and persists it in
// whichever catalog the prediction picked.
func (c *MLClient) PredictAndSave(ctx context.Context, req *models.PredictAndSaveRequest) (*models.PredictAndSaveResult, error) {
	var result models.PredictAndSaveResult

	if err := c.do(ctx, http.MethodPost, "/predict-and-save", req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
