package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/projetproduits/storefront/internal/models"
)

// CatalogClient is the typed facade over one audience segment's catalog
// service: products, users and interaction telemetry. Every call is a
// direct request/response mapping; the only local work is envelope
// normalization.
type CatalogClient struct {
	baseClient
	segment models.Segment
}

func NewCatalogClient(segment models.Segment, baseURL string, timeout time.Duration, token TokenSource, logger *slog.Logger) *CatalogClient {
	httpClient := NewHTTPClient(string(segment), timeout, token)

	return &CatalogClient{
		baseClient: newBaseClient(httpClient, baseURL, logger),
		segment:    segment,
	}
}

func (c *CatalogClient) Segment() models.Segment {
	return c.segment
}

func (c *CatalogClient) prefix() string {
	return "/api/" + string(c.segment)
}

// Products

func (c *CatalogClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	return c.productList(ctx, c.prefix()+"/produits")
}

func (c *CatalogClient) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product

	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/produits/%d", c.prefix(), id), nil, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *CatalogClient) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	var product models.Product

	if err := c.do(ctx, http.MethodPost, c.prefix()+"/produits", req, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// UpdateProduct is a full object replacement on the catalog side.
func (c *CatalogClient) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	var product models.Product

	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/produits/%d", c.prefix(), id), req, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (c *CatalogClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/produits/%d", c.prefix(), id), nil, nil)
}

func (c *CatalogClient) ProductsByCategory(ctx context.Context, categorie string) ([]models.Product, error) {
	return c.productList(ctx, c.prefix()+"/produits/categorie/"+url.PathEscape(categorie))
}

func (c *CatalogClient) SearchProducts(ctx context.Context, nom string) ([]models.Product, error) {
	return c.productList(ctx, c.prefix()+"/produits/search?nom="+url.QueryEscape(nom))
}

func (c *CatalogClient) productList(ctx context.Context, path string) ([]models.Product, error) {
	var raw []byte

	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	return DecodeList[models.Product](raw)
}

// Users

func (c *CatalogClient) ListUsers(ctx context.Context) ([]models.CatalogUser, error) {
	return c.userList(ctx, c.prefix()+"/users")
}

func (c *CatalogClient) GetUser(ctx context.Context, id int64) (*models.CatalogUser, error) {
	var user models.CatalogUser

	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/users/%d", c.prefix(), id), nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *CatalogClient) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.CatalogUser, error) {
	var user models.CatalogUser

	if err := c.do(ctx, http.MethodPost, c.prefix()+"/users", req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *CatalogClient) UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.CatalogUser, error) {
	var user models.CatalogUser

	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/users/%d", c.prefix(), id), req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *CatalogClient) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/users/%d", c.prefix(), id), nil, nil)
}

func (c *CatalogClient) SearchUsers(ctx context.Context, nom string) ([]models.CatalogUser, error) {
	return c.userList(ctx, c.prefix()+"/users/search?nom="+url.QueryEscape(nom))
}

func (c *CatalogClient) userList(ctx context.Context, path string) ([]models.CatalogUser, error) {
	var raw []byte

	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	return DecodeList[models.CatalogUser](raw)
}

// Interactions

func (c *CatalogClient) ListInteractions(ctx context.Context) ([]models.Interaction, error) {
	return c.interactionList(ctx, c.prefix()+"/interactions")
}

func (c *CatalogClient) CreateInteraction(ctx context.Context, req *models.CreateInteractionRequest) (*models.Interaction, error) {
	var interaction models.Interaction

	if err := c.do(ctx, http.MethodPost, c.prefix()+"/interactions", req, &interaction); err != nil {
		return nil, err
	}

	return &interaction, nil
}

func (c *CatalogClient) InteractionsByUser(ctx context.Context, userID int64) ([]models.Interaction, error) {
	return c.interactionList(ctx, fmt.Sprintf("%s/interactions/user/%d", c.prefix(), userID))
}

func (c *CatalogClient) InteractionsByProduct(ctx context.Context, produitID int64) ([]models.Interaction, error) {
	return c.interactionList(ctx, fmt.Sprintf("%s/interactions/produit/%d", c.prefix(), produitID))
}

func (c *CatalogClient) TrainingData(ctx context.Context) ([]models.TrainingRow, error) {
	var raw []byte

	if err := c.do(ctx, http.MethodGet, c.prefix()+"/interactions/training-data", nil, &raw); err != nil {
		return nil, err
	}

	return DecodeList[models.TrainingRow](raw)
}

func (c *CatalogClient) interactionList(ctx context.Context, path string) ([]models.Interaction, error) {
	var raw []byte

	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	return DecodeList[models.Interaction](raw)
}
