package task

import (
	"fmt"

	"github.com/stridehq/stride/internal/domain"
)

// ValidateCreateRequest checks a task creation request before persistence.
func ValidateCreateRequest(req *CreateRequest) error {
	if req.Title == "" {
		return fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if len(req.Title) > 500 {
		return fmt.Errorf("title exceeds 500 characters: %w", domain.ErrValidation)
	}
	if req.Priority != 0 && (req.Priority < PriorityHighest || req.Priority > PriorityLowest) {
		return fmt.Errorf("priority must be between %d and %d: %w", PriorityHighest, PriorityLowest, domain.ErrValidation)
	}
	if req.EstimatedHours < 0 {
		return fmt.Errorf("estimated_hours must be non-negative: %w", domain.ErrValidation)
	}
	return nil
}

// ValidateUpdateRequest checks a partial task update.
func ValidateUpdateRequest(req *UpdateRequest) error {
	if req.Title != nil && *req.Title == "" {
		return fmt.Errorf("title cannot be empty: %w", domain.ErrValidation)
	}
	if req.Priority != nil && (*req.Priority < PriorityHighest || *req.Priority > PriorityLowest) {
		return fmt.Errorf("priority must be between %d and %d: %w", PriorityHighest, PriorityLowest, domain.ErrValidation)
	}
	if req.EstimatedHours != nil && *req.EstimatedHours < 0 {
		return fmt.Errorf("estimated_hours must be non-negative: %w", domain.ErrValidation)
	}
	if req.ActualHours != nil && *req.ActualHours < 0 {
		return fmt.Errorf("actual_hours must be non-negative: %w", domain.ErrValidation)
	}
	return nil
}

// ValidateStatusTransition rejects unknown statuses. Any transition between
// legal statuses is allowed; completion stamping is handled by the service.
func ValidateStatusTransition(from, to Status) error {
	if !ValidStatus(to) {
		return fmt.Errorf("unknown task status %q: %w", to, domain.ErrValidation)
	}
	if !ValidStatus(from) {
		return fmt.Errorf("task has corrupt status %q: %w", from, domain.ErrValidation)
	}
	return nil
}
