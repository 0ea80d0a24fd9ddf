package catalog

type AddonInfoResponse struct {
	Available bool   `json:"available"`
	Name      string `json:"name,omitempty"`
	Price     int64  `json:"price,omitempty"`
}

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	DurationMin int64  `json:"duration_min" binding:"required,gt=0"`
	Class       string `json:"service_type"`
	SortOrder   int64  `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateServiceRequest carries only the fields present in the body;
// nil pointers are left untouched.
type UpdateServiceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	DurationMin *int64  `json:"duration_min"`
	SortOrder   *int64  `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}
