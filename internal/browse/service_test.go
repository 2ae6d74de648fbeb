package browse_test

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/projetproduits/storefront/internal/browse"
	"github.com/projetproduits/storefront/internal/client"
	"github.com/projetproduits/storefront/internal/models"
	"github.com/projetproduits/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBrowseService(t *testing.T, hommeFake, femmeFake *testutils.FakeCatalog) *browse.Service {
	t.Helper()

	hommeServer := hommeFake.Server()
	femmeServer := femmeFake.Server()
	t.Cleanup(hommeServer.Close)
	t.Cleanup(femmeServer.Close)

	logger := discardLogger()
	homme := client.NewCatalogClient(models.SegmentHomme, hommeServer.URL, 5*time.Second, nil, logger)
	femme := client.NewCatalogClient(models.SegmentFemme, femmeServer.URL, 5*time.Second, nil, logger)

	return browse.NewService(homme, femme, logger)
}

func TestFetchBoth(t *testing.T) {

	t.Run("Success - Both Catalogs Tagged", func(t *testing.T) {
		// Arrange
		hommeFake := testutils.NewFakeCatalog(models.SegmentHomme)
		hommeFake.SeedProduct(models.Product{Nom: "Costume"})
		femmeFake := testutils.NewFakeCatalog(models.SegmentFemme)
		femmeFake.SeedProduct(models.Product{Nom: "Robe"})
		service := newBrowseService(t, hommeFake, femmeFake)

		// Act
		result := service.FetchBoth(context.Background())

		// Assert
		require.NoError(t, result.HommeErr)
		require.NoError(t, result.FemmeErr)
		assert.Equal(t, "Homme", result.Homme[0].Gender)
		assert.Equal(t, "Femme", result.Femme[0].Gender)
	})

	t.Run("Success - One Failing Segment Degrades Gracefully", func(t *testing.T) {
		// Arrange
		hommeFake := testutils.NewFakeCatalog(models.SegmentHomme)
		hommeFake.FailLists = true
		femmeFake := testutils.NewFakeCatalog(models.SegmentFemme)
		femmeFake.SeedProduct(models.Product{Nom: "Robe"})
		service := newBrowseService(t, hommeFake, femmeFake)

		// Act
		result := service.FetchBoth(context.Background())

		// Assert
		assert.Error(t, result.HommeErr)
		assert.NoError(t, result.FemmeErr)
		assert.Len(t, result.Femme, 1)
		assert.False(t, result.Failed())
	})

	t.Run("Failure - Both Segments Down", func(t *testing.T) {
		// Arrange
		hommeFake := testutils.NewFakeCatalog(models.SegmentHomme)
		hommeFake.FailLists = true
		femmeFake := testutils.NewFakeCatalog(models.SegmentFemme)
		femmeFake.FailLists = true
		service := newBrowseService(t, hommeFake, femmeFake)

		// Act
		result := service.FetchBoth(context.Background())

		// Assert
		assert.True(t, result.Failed())
	})
}

func TestDashboard(t *testing.T) {

	t.Run("Success - Home Catalog Plus Sampled Foreign Slice", func(t *testing.T) {
		// Arrange
		hommeFake := testutils.NewFakeCatalog(models.SegmentHomme)
		for _, nom := range []string{"Costume", "Cravate"} {
			hommeFake.SeedProduct(models.Product{Nom: nom})
		}
		femmeFake := testutils.NewFakeCatalog(models.SegmentFemme)
		for _, nom := range []string{"Robe", "Jupe", "Sac", "Foulard", "Collier"} {
			femmeFake.SeedProduct(models.Product{Nom: nom})
		}
		service := newBrowseService(t, hommeFake, femmeFake)

		// Act: ceil(5 * 0.2) = 1 femme product in the homme view
		products, err := service.Dashboard(context.Background(), models.SegmentHomme, 0.2, rand.New(rand.NewSource(3)))

		// Assert
		require.NoError(t, err)
		assert.Len(t, products, 3)
		assert.Equal(t, "Homme", products[0].Gender)
		assert.Equal(t, "Homme", products[1].Gender)
		assert.Equal(t, "Femme", products[2].Gender)
	})

	t.Run("Failure - Both Catalogs Down", func(t *testing.T) {
		// Arrange
		hommeFake := testutils.NewFakeCatalog(models.SegmentHomme)
		hommeFake.FailLists = true
		femmeFake := testutils.NewFakeCatalog(models.SegmentFemme)
		femmeFake.FailLists = true
		service := newBrowseService(t, hommeFake, femmeFake)

		// Act
		_, err := service.Dashboard(context.Background(), models.SegmentFemme, 0.2, rand.New(rand.NewSource(3)))

		// Assert
		assert.Error(t, err)
	})
}

func TestStats(t *testing.T) {

	t.Run("Success - Each Slot Independent", func(t *testing.T) {
		// Arrange
		hommeFake := testutils.NewFakeCatalog(models.SegmentHomme)
		hommeFake.SeedProduct(models.Product{Nom: "Costume"})
		hommeFake.SeedProduct(models.Product{Nom: "Cravate"})
		hommeFake.SeedUser(models.CatalogUser{Nom: "Jean", Email: "jean@example.com"})
		femmeFake := testutils.NewFakeCatalog(models.SegmentFemme)
		femmeFake.SeedProduct(models.Product{Nom: "Robe"})
		service := newBrowseService(t, hommeFake, femmeFake)

		// Act
		stats := service.Stats(context.Background())

		// Assert
		assert.Equal(t, 2, stats.HommeProducts)
		assert.Equal(t, 1, stats.HommeUsers)
		assert.Equal(t, 1, stats.FemmeProducts)
		assert.Equal(t, 0, stats.FemmeUsers)
	})

	t.Run("Success - Failed Slot Stays Zero Without Blocking Others", func(t *testing.T) {
		// Arrange
		hommeFake := testutils.NewFakeCatalog(models.SegmentHomme)
		hommeFake.FailLists = true
		femmeFake := testutils.NewFakeCatalog(models.SegmentFemme)
		femmeFake.SeedProduct(models.Product{Nom: "Robe"})
		service := newBrowseService(t, hommeFake, femmeFake)

		// Act
		stats := service.Stats(context.Background())

		// Assert
		assert.Equal(t, 0, stats.HommeProducts)
		assert.Equal(t, 1, stats.FemmeProducts)
	})
}

func TestRecordInteraction(t *testing.T) {

	t.Run("Success - Routes To The Owning Segment", func(t *testing.T) {
		// Arrange
		hommeFake := testutils.NewFakeCatalog(models.SegmentHomme)
		femmeFake := testutils.NewFakeCatalog(models.SegmentFemme)
		service := newBrowseService(t, hommeFake, femmeFake)

		req := &models.CreateInteractionRequest{
			UserID:          7,
			ProduitID:       12,
			TypeInteraction: models.InteractionLike,
		}

		// Act
		err := service.RecordInteraction(context.Background(), models.SegmentFemme, req)

		// Assert
		require.NoError(t, err)
		assert.Len(t, femmeFake.Interactions(), 1)
		assert.Empty(t, hommeFake.Interactions())
		assert.Equal(t, models.InteractionLike, femmeFake.Interactions()[0].TypeInteraction)
	})
}
