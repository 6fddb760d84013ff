package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bloodbound-service/internal/api/dto"
	"github.com/spec-kit/bloodbound-service/internal/auth"
	"github.com/spec-kit/bloodbound-service/internal/domain"
	"github.com/spec-kit/bloodbound-service/internal/observability"
	"github.com/spec-kit/bloodbound-service/internal/service"
	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

// ProfileHandler exposes the profile upsert endpoint.
type ProfileHandler struct {
	profiles *service.ProfileService
	metrics  *observability.Metrics
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService, metrics *observability.Metrics) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, metrics: metrics}
}

// Update handles POST /profile/update. The identity comes from the
// bearer credential; the body declares the role and any profile fields
// to set. Everything except "role" is passed through to the store.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing or invalid token")
	}

	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	role, _ := body[domain.FieldRole].(string)
	if role == "" {
		return apperrors.NewValidationError("role is required", nil)
	}
	delete(body, domain.FieldRole)

	result, err := h.profiles.Upsert(c.UserContext(), role, claims.Email, body)
	if err != nil {
		h.recordOutcome(role, "failed")
		return err
	}

	message := "Profile updated successfully"
	outcome := "updated"
	if result.Created {
		message = "Profile created successfully"
		outcome = "created"
	}
	h.recordOutcome(role, outcome)

	return c.JSON(dto.UpsertResponse{Message: message, Profile: result.Profile})
}

func (h *ProfileHandler) recordOutcome(role, outcome string) {
	collection, err := domain.ResolveCollection(role)
	if err != nil {
		collection = "unknown"
	}
	h.metrics.RecordUpsert(string(collection), outcome)
}
