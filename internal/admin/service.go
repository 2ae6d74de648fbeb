package admin

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/projetproduits/storefront/internal/client"
	appErrors "github.com/projetproduits/storefront/internal/errors"
	"github.com/projetproduits/storefront/internal/models"
)

// Service backs the admin CRUD screens. Every mutation reloads the
// full list instead of patching local state, same as the screens do.
type Service struct {
	homme     *client.CatalogClient
	femme     *client.CatalogClient
	auth      *client.AuthClient
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

func NewService(homme, femme *client.CatalogClient, auth *client.AuthClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		homme:     homme,
		femme:     femme,
		auth:      auth,
		validate:  validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

func (s *Service) catalog(segment models.Segment) (*client.CatalogClient, error) {
	switch segment {
	case models.SegmentHomme:
		return s.homme, nil
	case models.SegmentFemme:
		return s.femme, nil
	default:
		return nil, appErrors.BadRequestError("Unknown audience segment")
	}
}

// Products

func (s *Service) ListProducts(ctx context.Context, segment models.Segment) ([]models.Product, error) {
	c, err := s.catalog(segment)
	if err != nil {
		return nil, err
	}

	return c.ListProducts(ctx)
}

func (s *Service) SearchProducts(ctx context.Context, segment models.Segment, nom string) ([]models.Product, error) {
	c, err := s.catalog(segment)
	if err != nil {
		return nil, err
	}

	return c.SearchProducts(ctx, nom)
}

func (s *Service) CreateProduct(ctx context.Context, segment models.Segment, req *models.CreateProductRequest) ([]models.Product, error) {

	c, err := s.catalog(segment)
	if err != nil {
		return nil, err
	}

	s.sanitizeProduct(&req.Nom, &req.Categorie, &req.Description)

	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.ValidationError("Invalid product data").WithError(err)
	}

	if _, err := c.CreateProduct(ctx, req); err != nil {
		return nil, err
	}

	return c.ListProducts(ctx)
}

func (s *Service) UpdateProduct(ctx context.Context, segment models.Segment, id int64, req *models.UpdateProductRequest) ([]models.Product, error) {

	c, err := s.catalog(segment)
	if err != nil {
		return nil, err
	}

	s.sanitizeProduct(&req.Nom, &req.Categorie, &req.Description)

	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.ValidationError("Invalid product data").WithError(err)
	}

	if _, err := c.UpdateProduct(ctx, id, req); err != nil {
		return nil, err
	}

	return c.ListProducts(ctx)
}

func (s *Service) DeleteProduct(ctx context.Context, segment models.Segment, id int64) ([]models.Product, error) {

	c, err := s.catalog(segment)
	if err != nil {
		return nil, err
	}

	if err := c.DeleteProduct(ctx, id); err != nil {
		return nil, err
	}

	return c.ListProducts(ctx)
}

func (s *Service) sanitizeProduct(nom, categorie, description *string) {
	*nom = s.sanitizer.Sanitize(*nom)
	*categorie = s.sanitizer.Sanitize(*categorie)
	*description = s.sanitizer.Sanitize(*description)
}

// Users

func (s *Service) ListUsers(ctx context.Context, segment models.Segment) ([]models.CatalogUser, error) {
	c, err := s.catalog(segment)
	if err != nil {
		return nil, err
	}

	return c.ListUsers(ctx)
}

func (s *Service) SearchUsers(ctx context.Context, segment models.Segment, nom string) ([]models.CatalogUser, error) {
	c, err := s.catalog(segment)
	if err != nil {
		return nil, err
	}

	return c.SearchUsers(ctx, nom)
}

// CreateUser routes the record to the catalog matching the chosen
// genre, which may differ from the screen's own segment.
func (s *Service) CreateUser(ctx context.Context, segment models.Segment, req *models.CreateUserRequest) ([]models.CatalogUser, error) {

	c, err := s.catalog(segment)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.ValidationError("Invalid user data").WithError(err)
	}

	if _, err := c.CreateUser(ctx, req); err != nil {
		return nil, err
	}

	return c.ListUsers(ctx)
}

func (s *Service) UpdateUser(ctx context.Context, segment models.Segment, id int64, req *models.UpdateUserRequest) ([]models.CatalogUser, error) {

	c, err := s.catalog(segment)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.ValidationError("Invalid user data").WithError(err)
	}

	if _, err := c.UpdateUser(ctx, id, req); err != nil {
		return nil, err
	}

	return c.ListUsers(ctx)
}

// DeleteUserResult separates the two halves of a user deletion so
// callers and tests can see both outcomes instead of a swallowed log
// line. Only the primary decides overall success.
type DeleteUserResult struct {
	Primary   error
	Secondary error
}

func (r DeleteUserResult) Succeeded() bool {
	return r.Primary == nil
}

// DeleteUser removes the catalog record, then makes a best-effort
// attempt against the auth service keyed by email. A secondary failure
// is reported in the result but never fails the operation.
func (s *Service) DeleteUser(ctx context.Context, segment models.Segment, user models.CatalogUser) (DeleteUserResult, []models.CatalogUser, error) {

	c, err := s.catalog(segment)
	if err != nil {
		return DeleteUserResult{Primary: err}, nil, err
	}

	var result DeleteUserResult

	result.Primary = c.DeleteUser(ctx, user.ID)
	if result.Primary != nil {
		return result, nil, result.Primary
	}

	if user.Email != "" {
		result.Secondary = s.auth.DeleteUserByEmail(ctx, user.Email)
		if result.Secondary != nil {
			s.logger.Warn("Could not delete matching auth record",
				slog.String("email", user.Email),
				slog.String("error", result.Secondary.Error()),
			)
		}
	}

	users, err := c.ListUsers(ctx)

	return result, users, err
}
