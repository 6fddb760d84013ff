package dto

// UpsertResponse returned after a profile create or update.
type UpsertResponse struct {
	Message string         `json:"message"`
	Profile map[string]any `json:"profile"`
}
