// Package auth turns the identity provider's credential into a profile.
// The token signature is not verified; the provider widget is trusted.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/matheus3301/ora/internal/store"
)

// Fallbacks for claims the provider left out.
const (
	GuestName        = "Guest"
	PlaceholderEmail = "unknown@example.com"
)

// Claims are the identity claims read from the credential.
type Claims struct {
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	GivenName string `json:"given_name,omitempty"`
	Picture   string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// CredentialError is returned when the credential is missing or cannot be
// decoded.
type CredentialError struct {
	Reason string
	Err    error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential rejected: %s: %v", e.Reason, e.Err)
	}
	return "credential rejected: " + e.Reason
}

func (e *CredentialError) Unwrap() error { return e.Err }

var parser = jwt.NewParser()

// Decode reads the claims of token and builds a profile, applying the
// guest name and placeholder email when those claims are absent.
func Decode(token string) (*store.UserProfile, error) {
	if token == "" {
		return nil, &CredentialError{Reason: "no credential received"}
	}

	var claims Claims
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, &CredentialError{Reason: "undecodable token", Err: err}
	}

	p := &store.UserProfile{
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
	}
	if p.Name == "" {
		p.Name = claims.GivenName
	}
	if p.Name == "" {
		p.Name = GuestName
	}
	if p.Email == "" {
		p.Email = PlaceholderEmail
	}
	return p, nil
}
