package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type bookRequest struct {
	Title  string   `json:"title" validate:"required"`
	Author string   `json:"author"`
	Auth   []string `json:"auth" validate:"omitempty,dive,oneof=admin editor user"`
}

// bookUpdateRequest distinguishes absent fields from zero values so PATCH can
// merge only what the caller sent.
type bookUpdateRequest struct {
	Title  *string  `json:"title"`
	Author *string  `json:"author"`
	Auth   []string `json:"auth"`
}

// bookSummaryResponse is the list item shape: title and author only, the
// visibility list stays internal.
type bookSummaryResponse struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}
