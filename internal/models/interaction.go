package models

import "time"

type InteractionType string

const (
	InteractionView  InteractionType = "VIEW"
	InteractionClick InteractionType = "CLICK"
	InteractionLike  InteractionType = "LIKE"
)

// Interaction is a recorded user-product event. Write-mostly from this
// layer; the training pipeline reads them back server-side.
type Interaction struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	ProduitID       int64           `json:"produitId"`
	TypeInteraction InteractionType `json:"typeInteraction"`
	Timestamp       time.Time       `json:"timestamp"`
}

type CreateInteractionRequest struct {
	UserID          int64           `json:"userId" validate:"required"`
	ProduitID       int64           `json:"produitId" validate:"required"`
	TypeInteraction InteractionType `json:"typeInteraction" validate:"required,oneof=VIEW CLICK LIKE"`
}

// TrainingRow is one flattened interaction as served by the
// training-data endpoint.
type TrainingRow struct {
	UserID          int64           `json:"userId"`
	ProduitID       int64           `json:"produitId"`
	TypeInteraction InteractionType `json:"typeInteraction"`
	Categorie       string          `json:"categorie,omitempty"`
	Prix            float64         `json:"prix,omitempty"`
}
