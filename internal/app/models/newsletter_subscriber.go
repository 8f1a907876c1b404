package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSubscriberSource is used when a subscription does not say where it came from
const DefaultSubscriberSource = "website"

// NewsletterSubscriber is a row of newsletter_subscribers
type NewsletterSubscriber struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	Source         string     `json:"source" db:"source"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	SubscribedAt   time.Time  `json:"subscribed_at" db:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty" db:"unsubscribed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// SubscriptionStats counts subscribers by state
type SubscriptionStats struct {
	Total               int64 `json:"total"`
	Active              int64 `json:"active"`
	Inactive            int64 `json:"inactive"`
	RecentSubscriptions int64 `json:"recentSubscriptions"`
}
