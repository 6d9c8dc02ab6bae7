package waitlist

import (
	"github.com/buildrs/buildrs-api/internal/models"
	"github.com/buildrs/buildrs-api/pkg/constants"
)

// RegisterRequest only checks presence at bind time; the address itself is
// normalized and validated by the service so that a bad address maps to 422.
type RegisterRequest struct {
	Email string `json:"email" binding:"required"`
}

type RegisterResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	Message   string `json:"message"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

// ========================================
// Mappers
// ========================================

func ToRegisterResponse(entry *models.WaitlistEntry) RegisterResponse {
	if entry == nil {
		return RegisterResponse{}
	}
	return RegisterResponse{
		ID:        entry.ID,
		Email:     entry.Email,
		CreatedAt: entry.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
		Message:   msgRegistered,
	}
}

func ToSignupEvent(entry *models.WaitlistEntry) SignupEvent {
	return SignupEvent{
		ID:        entry.ID,
		Email:     entry.Email,
		CreatedAt: entry.CreatedAt,
	}
}
