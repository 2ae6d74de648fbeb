package browse_test

import (
	"testing"

	"github.com/projetproduits/storefront/internal/browse"
	"github.com/projetproduits/storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

func catalog() []models.Product {
	return []models.Product{
		{ID: 1, Nom: "Chaussures de sport", Categorie: "Chaussures", Prix: 89.99},
		{ID: 2, Nom: "Montre classique", Categorie: "Accessoires", Prix: 250},
		{ID: 3, Nom: "Sac à main", Categorie: "Accessoires", Prix: 120, Description: "cuir véritable"},
		{ID: 4, Nom: "Ceinture", Categorie: "Accessoires", Prix: 35, Description: "assortie aux chaussures"},
		{ID: 5, Nom: "Écharpe", Categorie: "", Prix: 25},
	}
}

func TestSearch(t *testing.T) {

	t.Run("Success - Matches Name Or Description Case Insensitively", func(t *testing.T) {
		// Act
		matched := browse.Search(catalog(), "chaussure")

		// Assert: "Chaussures de sport" by name, "Ceinture" by description
		assert.Len(t, matched, 2)
		assert.Equal(t, int64(1), matched[0].ID)
		assert.Equal(t, int64(4), matched[1].ID)
	})

	t.Run("Success - Empty Term Matches Everything", func(t *testing.T) {
		assert.Len(t, browse.Search(catalog(), ""), 5)
	})

	t.Run("Success - No Match Yields Empty", func(t *testing.T) {
		assert.Empty(t, browse.Search(catalog(), "parapluie"))
	})
}

func TestFilterCategory(t *testing.T) {

	t.Run("Success - Exact Match Only", func(t *testing.T) {
		matched := browse.FilterCategory(catalog(), "Accessoires")

		assert.Len(t, matched, 3)
	})

	t.Run("Success - Empty Filter Keeps Everything", func(t *testing.T) {
		assert.Len(t, browse.FilterCategory(catalog(), ""), 5)
	})

	t.Run("Success - Case Differences Do Not Match", func(t *testing.T) {
		assert.Empty(t, browse.FilterCategory(catalog(), "accessoires"))
	})
}

func TestCategories(t *testing.T) {

	t.Run("Success - Distinct Non Empty Sorted", func(t *testing.T) {
		categories := browse.Categories(catalog())

		assert.Equal(t, []string{"Accessoires", "Chaussures"}, categories)
	})
}

func TestSortProducts(t *testing.T) {

	t.Run("Success - Default Is Name Ascending", func(t *testing.T) {
		// Act
		sorted := browse.SortProducts(catalog(), browse.ParseSort("anything"))

		// Assert
		assert.Equal(t, "Ceinture", sorted[0].Nom)
		assert.Equal(t, "Sac à main", sorted[len(sorted)-1].Nom)
	})

	t.Run("Success - Accents Collate Like The Storefront", func(t *testing.T) {
		// Arrange
		products := []models.Product{
			{Nom: "Échantillon"},
			{Nom: "Zeste"},
			{Nom: "Eau"},
		}

		// Act
		sorted := browse.SortProducts(products, browse.SortNameAsc)

		// Assert: é sorts with e, not after z
		assert.Equal(t, []string{"Eau", "Échantillon", "Zeste"}, names(sorted))
	})

	t.Run("Success - Price Ascending", func(t *testing.T) {
		sorted := browse.SortProducts(catalog(), browse.SortPriceAsc)

		assert.Equal(t, 25.0, sorted[0].Prix)
		assert.Equal(t, 250.0, sorted[len(sorted)-1].Prix)
	})

	t.Run("Success - Price Descending", func(t *testing.T) {
		sorted := browse.SortProducts(catalog(), browse.SortPriceDesc)

		assert.Equal(t, 250.0, sorted[0].Prix)
	})

	t.Run("Success - Input Slice Is Left Alone", func(t *testing.T) {
		// Arrange
		products := catalog()

		// Act
		_ = browse.SortProducts(products, browse.SortPriceDesc)

		// Assert
		assert.Equal(t, int64(1), products[0].ID)
	})
}

func TestPaginate(t *testing.T) {

	t.Run("Success - Slices One Page", func(t *testing.T) {
		page := browse.Paginate(catalog(), 2, 2)

		assert.Len(t, page.Data, 2)
		assert.Equal(t, int64(3), page.Data[0].ID)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, 2, page.Page)
	})

	t.Run("Success - Last Partial Page", func(t *testing.T) {
		page := browse.Paginate(catalog(), 3, 2)

		assert.Len(t, page.Data, 1)
	})

	t.Run("Success - Page Past The End Is Empty", func(t *testing.T) {
		page := browse.Paginate(catalog(), 9, 2)

		assert.Empty(t, page.Data)
		assert.Equal(t, 5, page.Total)
	})

	t.Run("Success - Zero Size Means Everything", func(t *testing.T) {
		page := browse.Paginate(catalog(), 1, 0)

		assert.Len(t, page.Data, 5)
	})
}
