package models

// CatalogUser is a per-segment catalog record, not the auth identity.
type CatalogUser struct {
	ID    int64  `json:"id"`
	Nom   string `json:"nom"`
	Email string `json:"email"`
	Age   int    `json:"age,omitempty"`
}

type CreateUserRequest struct {
	Nom   string `json:"nom" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
}

type UpdateUserRequest struct {
	Nom   string `json:"nom" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
}
