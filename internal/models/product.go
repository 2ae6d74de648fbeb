package models

type Segment string

const (
	SegmentHomme Segment = "homme"
	SegmentFemme Segment = "femme"
)

func (s Segment) Valid() bool {
	return s == SegmentHomme || s == SegmentFemme
}

// Gender is the display tag stamped on a product after fetch; the
// catalog services do not store it.
func (s Segment) Gender() string {
	if s == SegmentHomme {
		return "Homme"
	}

	return "Femme"
}

type Product struct {
	ID          int64   `json:"id"`
	Nom         string  `json:"nom"`
	Categorie   string  `json:"categorie"`
	Prix        float64 `json:"prix"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Gender      string  `json:"gender,omitempty"`
}

type CreateProductRequest struct {
	Nom         string  `json:"nom" validate:"required,min=2,max=200"`
	Categorie   string  `json:"categorie" validate:"required"`
	Prix        float64 `json:"prix" validate:"required,gt=0"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// Updates are full object replacement on the catalog side, so the
// update request carries every field.
type UpdateProductRequest struct {
	Nom         string  `json:"nom" validate:"required,min=2,max=200"`
	Categorie   string  `json:"categorie" validate:"required"`
	Prix        float64 `json:"prix" validate:"required,gt=0"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
}
