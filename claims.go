package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const refreshTokenType = "refresh"

// TokenClaims is the claim set carried by issued tokens. Access tokens
// embed the identity projection; refresh tokens only carry the user id
// and the tokenType marker.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID         int64  `json:"userId,omitempty"`
	UserRole       string `json:"role,omitempty"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	IsVerified     bool   `json:"isVerified"`
	BloodType      string `json:"bloodType,omitempty"`
	OrganizationID *int64 `json:"organizationId,omitempty"`
	TokenType      string `json:"tokenType,omitempty"`
}

// Subject returns the subject claim, the account email
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Role returns the role claim
func (c *TokenClaims) Role() string {
	return c.UserRole
}

// IsRefresh reports whether this is a refresh token. A missing
// tokenType claim means a regular access token.
func (c *TokenClaims) IsRefresh() bool {
	return c.TokenType == refreshTokenType
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// ExpiredAt reports whether the claims are expired when checked at the
// given instant. A token whose expiry equals the check time is expired.
func (c *TokenClaims) ExpiredAt(now time.Time) bool {
	exp := c.Expires()
	if exp.IsZero() {
		return true
	}
	return !now.Before(exp)
}

// BindsTo reports whether the claims still bind to the stored identity:
// the subject must match the email and the userId claim must match the
// record id. The double binding keeps a token from surviving an email
// change or an id reuse.
func (c *TokenClaims) BindsTo(user *User) bool {
	if user == nil {
		return false
	}
	return c.Subject() == user.Email && c.UserID == user.ID
}
