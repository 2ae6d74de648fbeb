package models

type PredictRequest struct {
	ProductName  string `json:"product_name" validate:"required"`
	ProductType  string `json:"product_type" validate:"required"`
	ProductGroup string `json:"product_group,omitempty"`
}

type Prediction struct {
	PredictedGender string             `json:"predicted_gender"`
	Confidence      float64            `json:"confidence"`
	Probabilities   map[string]float64 `json:"probabilities"`
}

type PredictAndSaveRequest struct {
	Nom         string  `json:"nom" validate:"required"`
	Categorie   string  `json:"categorie" validate:"required"`
	Prix        float64 `json:"prix" validate:"required,gt=0"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// PredictAndSaveResult is the persisted product plus the prediction
// that routed it to a catalog.
type PredictAndSaveResult struct {
	PredictedGender string             `json:"predicted_gender"`
	Confidence      float64            `json:"confidence"`
	Probabilities   map[string]float64 `json:"probabilities"`
	Product         Product            `json:"product"`
}
