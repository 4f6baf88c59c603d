package goal

import (
	"fmt"

	"github.com/stridehq/stride/internal/domain"
)

// ValidateCreateRequest checks a goal creation request before persistence.
func ValidateCreateRequest(req *CreateRequest) error {
	if req.Title == "" {
		return fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if len(req.Title) > 500 {
		return fmt.Errorf("title exceeds 500 characters: %w", domain.ErrValidation)
	}
	if !ValidHorizon(req.Horizon) {
		return fmt.Errorf("horizon must be one of weekly, monthly, quarterly, yearly: %w", domain.ErrValidation)
	}
	return nil
}

// ValidateUpdateRequest checks a partial goal update.
func ValidateUpdateRequest(req *UpdateRequest) error {
	if req.Title != nil && *req.Title == "" {
		return fmt.Errorf("title cannot be empty: %w", domain.ErrValidation)
	}
	if req.Horizon != nil && !ValidHorizon(*req.Horizon) {
		return fmt.Errorf("unknown horizon %q: %w", *req.Horizon, domain.ErrValidation)
	}
	if req.Status != nil && !ValidStatus(*req.Status) {
		return fmt.Errorf("unknown goal status %q: %w", *req.Status, domain.ErrValidation)
	}
	return nil
}
