package client_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/projetproduits/storefront/internal/client"
	"github.com/projetproduits/storefront/internal/models"
	"github.com/projetproduits/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMLClient(t *testing.T, fake *testutils.FakeML) *client.MLClient {
	t.Helper()

	server := fake.Server()
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return client.NewMLClient(server.URL, 5*time.Second, nil, logger)
}

func TestPredict(t *testing.T) {

	t.Run("Success - Returns Gender And Probabilities", func(t *testing.T) {
		// Arrange
		fake := testutils.NewFakeML()
		c := newMLClient(t, fake)

		// Act
		prediction, err := c.Predict(context.Background(), &models.PredictRequest{
			ProductName: "Robe longue",
			ProductType: "Robes",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Femme", prediction.PredictedGender)
		assert.InDelta(t, 0.91, prediction.Confidence, 0.001)
		assert.Contains(t, prediction.Probabilities, "Femme")
	})
}

func TestPredictAndSave(t *testing.T) {

	t.Run("Success - Product Persisted With Prediction", func(t *testing.T) {
		// Arrange
		fake := testutils.NewFakeML()
		c := newMLClient(t, fake)

		// Act
		result, err := c.PredictAndSave(context.Background(), &models.PredictAndSaveRequest{
			Nom:       "Montre automatique",
			Categorie: "Accessoires",
			Prix:      320,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Homme", result.PredictedGender)
		assert.NotZero(t, result.Product.ID)

		saved := fake.Saved()
		require.Len(t, saved, 1)
		assert.Equal(t, "Montre automatique", saved[0].Nom)
	})
}
