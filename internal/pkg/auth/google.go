package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ErrInvalidGoogleToken is returned for any ID token Google does not vouch for
var ErrInvalidGoogleToken = errors.New("invalid or expired Google token")

// GoogleIdentity is the subset of ID token claims the service uses
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier checks Google Sign-In ID tokens
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// IDTokenVerifier verifies tokens against Google's public keys
type IDTokenVerifier struct {
	clientID  string
	validator *idtoken.Validator
}

// NewIDTokenVerifier creates a verifier for tokens issued to clientID
func NewIDTokenVerifier(ctx context.Context, clientID string) (*IDTokenVerifier, error) {
	v, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create id token validator: %w", err)
	}
	return &IDTokenVerifier{clientID: clientID, validator: v}, nil
}

// Verify validates the token signature, expiry and audience
func (v *IDTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	payload, err := v.validator.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGoogleToken, err)
	}
	return identityFromClaims(payload.Subject, payload.Claims)
}

func identityFromClaims(subject string, claims map[string]interface{}) (*GoogleIdentity, error) {
	if subject == "" {
		return nil, ErrInvalidGoogleToken
	}
	id := &GoogleIdentity{Subject: subject}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	if id.Email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", ErrInvalidGoogleToken)
	}
	return id, nil
}
