package dto

import (
	"time"

	"github.com/gpai/backend/internal/app/models"
)

// SubscribeRequest subscribes an email to the newsletter. The address
// itself is validated by the newsletter service.
type SubscribeRequest struct {
	Email  string `json:"email" example:"ada@example.com"`
	Source string `json:"source,omitempty" binding:"max=50" example:"landing_page"`
}

// UnsubscribeRequest removes an email from the newsletter
type UnsubscribeRequest struct {
	Email string `json:"email" example:"ada@example.com"`
}

// SubscriberResponse is returned after a subscription
type SubscriberResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email" example:"ada@example.com"`
	Source       string    `json:"source" example:"website"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// SubscriberListResponse is a page of active subscribers
type SubscriberListResponse struct {
	Subscribers []*models.NewsletterSubscriber `json:"subscribers"`
	Total       int64                          `json:"total" example:"120"`
	Page        int                            `json:"page" example:"1"`
	TotalPages  int                            `json:"totalPages" example:"3"`
}

// NewSubscriberResponse maps a subscriber to its response
func NewSubscriberResponse(s *models.NewsletterSubscriber) *SubscriberResponse {
	return &SubscriberResponse{
		ID:           s.ID.String(),
		Email:        s.Email,
		Source:       s.Source,
		SubscribedAt: s.SubscribedAt,
	}
}
