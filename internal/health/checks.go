package health

import (
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthHTTP "github.com/hellofresh/health-go/v5/checks/http"
	"github.com/projetproduits/storefront/internal/config"
)

// New builds the reachability checks for the four backends the
// storefront depends on. The ml service is SkipOnErr: a storefront is
// usable without predictions.
func New(cfg *config.Config) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "auth-service",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: healthHTTP.New(healthHTTP.Config{
					URL: cfg.Services.AuthURL,
				}),
			},
			health.Config{
				Name:      "homme-service",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: healthHTTP.New(healthHTTP.Config{
					URL: cfg.Services.HommeURL + "/api/homme/produits",
				}),
			},
			health.Config{
				Name:      "femme-service",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: healthHTTP.New(healthHTTP.Config{
					URL: cfg.Services.FemmeURL + "/api/femme/produits",
				}),
			},
			health.Config{
				Name:      "ml-service",
				Timeout:   5 * time.Second,
				SkipOnErr: true,
				Check: healthHTTP.New(healthHTTP.Config{
					URL: cfg.Services.MLURL + "/health",
				}),
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
