package browse

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/projetproduits/storefront/internal/client"
	"github.com/projetproduits/storefront/internal/models"
)

// Service composes the two catalog clients into the browse views.
type Service struct {
	homme  *client.CatalogClient
	femme  *client.CatalogClient
	logger *slog.Logger
}

func NewService(homme, femme *client.CatalogClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{homme: homme, femme: femme, logger: logger}
}

// CatalogResult carries both fetches separately so one audience's
// failure never hides the other's products.
type CatalogResult struct {
	Homme    []models.Product
	Femme    []models.Product
	HommeErr error
	FemmeErr error
}

// Failed reports whether neither catalog could be fetched.
func (r CatalogResult) Failed() bool {
	return r.HommeErr != nil && r.FemmeErr != nil
}

// FetchBoth loads both catalogs concurrently and tags each product
// with its audience. Partial results are expected and fine.
func (s *Service) FetchBoth(ctx context.Context) CatalogResult {

	var result CatalogResult
	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		result.Homme, result.HommeErr = s.fetchSegment(ctx, s.homme)
	}()

	go func() {
		defer wg.Done()

		result.Femme, result.FemmeErr = s.fetchSegment(ctx, s.femme)
	}()

	wg.Wait()

	return result
}

func (s *Service) fetchSegment(ctx context.Context, c *client.CatalogClient) ([]models.Product, error) {

	products, err := c.ListProducts(ctx)
	if err != nil {
		s.logger.Warn("Catalog fetch failed",
			slog.String("segment", string(c.Segment())),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	gender := c.Segment().Gender()
	for i := range products {
		products[i].Gender = gender
	}

	return products, nil
}

// Dashboard builds the audience-weighted storefront view for one home
// segment: its full catalog plus a random slice of the other one.
func (s *Service) Dashboard(ctx context.Context, home models.Segment, rate float64, rng *rand.Rand) ([]models.Product, error) {

	result := s.FetchBoth(ctx)
	if result.Failed() {
		if home == models.SegmentHomme {
			return nil, result.HommeErr
		}

		return nil, result.FemmeErr
	}

	if home == models.SegmentHomme {
		return Sample(result.Homme, result.Femme, rate, rng), nil
	}

	return Sample(result.Femme, result.Homme, rate, rng), nil
}

// Stats are the four dashboard counters. Each slot is filled as its
// own request resolves; a failed request leaves its slot at zero
// without touching the others.
type Stats struct {
	HommeProducts int
	HommeUsers    int
	FemmeProducts int
	FemmeUsers    int
}

func (s *Service) Stats(ctx context.Context) Stats {

	var stats Stats
	var mu sync.Mutex
	var wg sync.WaitGroup

	update := func(slot *int, count int, err error, what string) {
		if err != nil {
			s.logger.Warn("Stat fetch failed", slog.String("stat", what), slog.String("error", err.Error()))

			return
		}

		mu.Lock()
		*slot = count
		mu.Unlock()
	}

	wg.Add(4)

	go func() {
		defer wg.Done()

		products, err := s.homme.ListProducts(ctx)
		update(&stats.HommeProducts, len(products), err, "hommeProducts")
	}()

	go func() {
		defer wg.Done()

		users, err := s.homme.ListUsers(ctx)
		update(&stats.HommeUsers, len(users), err, "hommeUsers")
	}()

	go func() {
		defer wg.Done()

		products, err := s.femme.ListProducts(ctx)
		update(&stats.FemmeProducts, len(products), err, "femmeProducts")
	}()

	go func() {
		defer wg.Done()

		users, err := s.femme.ListUsers(ctx)
		update(&stats.FemmeUsers, len(users), err, "femmeUsers")
	}()

	wg.Wait()

	return stats
}

// RecordInteraction sends one view/click/like event to the segment
// that owns the product. Telemetry only; the caller typically ignores
// the returned record.
func (s *Service) RecordInteraction(ctx context.Context, segment models.Segment, req *models.CreateInteractionRequest) error {

	c := s.homme
	if segment == models.SegmentFemme {
		c = s.femme
	}

	_, err := c.CreateInteraction(ctx, req)

	return err
}
