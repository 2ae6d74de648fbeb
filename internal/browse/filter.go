package browse

import (
	"sort"
	"strings"

	"github.com/projetproduits/storefront/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Sort string

const (
	SortNameAsc   Sort = "nom"
	SortPriceAsc  Sort = "prix-asc"
	SortPriceDesc Sort = "prix-desc"
)

func ParseSort(value string) Sort {
	switch Sort(value) {
	case SortPriceAsc, SortPriceDesc:
		return Sort(value)
	default:
		return SortNameAsc
	}
}

// Search keeps products whose nom or description contains the term,
// case-insensitively. An empty term matches everything.
func Search(products []models.Product, term string) []models.Product {

	if term == "" {
		return products
	}

	needle := strings.ToLower(term)
	matched := make([]models.Product, 0, len(products))

	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Nom), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matched = append(matched, p)
		}
	}

	return matched
}

// FilterCategory keeps exact category matches; empty means no filter.
// Categories are already consistently cased upstream.
func FilterCategory(products []models.Product, categorie string) []models.Product {

	if categorie == "" {
		return products
	}

	matched := make([]models.Product, 0, len(products))

	for _, p := range products {
		if p.Categorie == categorie {
			matched = append(matched, p)
		}
	}

	return matched
}

// Categories lists the distinct non-empty categories, sorted.
func Categories(products []models.Product) []string {

	seen := make(map[string]struct{})
	categories := make([]string, 0)

	for _, p := range products {
		if p.Categorie == "" {
			continue
		}

		if _, ok := seen[p.Categorie]; ok {
			continue
		}

		seen[p.Categorie] = struct{}{}
		categories = append(categories, p.Categorie)
	}

	sort.Strings(categories)

	return categories
}

// SortProducts orders a copy of the list. Name ordering is French
// collation, matching what the storefronts display.
func SortProducts(products []models.Product, by Sort) []models.Product {

	sorted := make([]models.Product, len(products))
	copy(sorted, products)

	switch by {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Prix < sorted[j].Prix
		})
	case SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Prix > sorted[j].Prix
		})
	default:
		collator := collate.New(language.French, collate.IgnoreCase)
		sort.SliceStable(sorted, func(i, j int) bool {
			return collator.CompareString(sorted[i].Nom, sorted[j].Nom) < 0
		})
	}

	return sorted
}

// Paginate slices one page out of the list, 1-based page numbers.
func Paginate(products []models.Product, page, pageSize int) models.PaginatedProducts {

	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = len(products)
		if pageSize == 0 {
			pageSize = 1
		}
	}

	start := (page - 1) * pageSize
	if start > len(products) {
		start = len(products)
	}

	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}

	return models.PaginatedProducts{
		Data:     products[start:end],
		Total:    len(products),
		Page:     page,
		PageSize: pageSize,
	}
}
