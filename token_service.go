package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RefreshTokenExpiration is fixed at 7 days regardless of the
// configured access token lifetime.
const RefreshTokenExpiration = 7 * 24 * time.Hour

// TokenService mints and verifies the bearer tokens issued by the
// engine. Implementations are pure functions of (claims, signing key,
// clock) and safe under unbounded concurrent use.
type TokenService interface {
	IssueAccessToken(user *User) (string, error)
	IssueRefreshToken(user *User) (string, error)
	Validate(tokenString string) (*TokenClaims, error)
	IsRefreshToken(tokenString string) bool
	ValidateForUser(tokenString string, user *User) bool
	AccessTokenExpiration() time.Duration
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey       []byte
	accessExpiration time.Duration
	issuer           string
	now              func() time.Time
	logger           Logger
}

// TokenServiceOption customizes token service construction
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenClock injects a custom clock (useful for tests)
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// WithTokenLogger overrides the logger
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService from the injected config.
// The signing key and lifetimes come from the config value, never from
// ambient globals.
func NewTokenService(cfg Config, opts ...TokenServiceOption) *TokenServiceImpl {
	ts := &TokenServiceImpl{
		signingKey:       []byte(cfg.GetSigningKey()),
		accessExpiration: cfg.GetTokenExpiration(),
		issuer:           cfg.GetIssuer(),
		now:              time.Now,
		logger:           defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// AccessTokenExpiration returns the configured access token lifetime
func (ts *TokenServiceImpl) AccessTokenExpiration() time.Duration {
	return ts.accessExpiration
}

// IssueAccessToken mints an access token embedding the identity
// projection for downstream authorization.
func (ts *TokenServiceImpl) IssueAccessToken(user *User) (string, error) {
	now := ts.now()
	claims := &TokenClaims{
		RegisteredClaims: ts.registeredClaims(user.Email, now, ts.accessExpiration),
		UserID:           user.ID,
		UserRole:         string(user.Role),
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		IsVerified:       user.IsVerified,
		OrganizationID:   user.OrganizationID,
	}

	// blood type only travels for donors and patients that declared one
	if user.BloodType != "" {
		claims.BloodType = user.BloodType
	}

	return ts.sign(claims)
}

// IssueRefreshToken mints a refresh token carrying only the user id
// and the tokenType marker.
func (ts *TokenServiceImpl) IssueRefreshToken(user *User) (string, error) {
	now := ts.now()
	claims := &TokenClaims{
		RegisteredClaims: ts.registeredClaims(user.Email, now, RefreshTokenExpiration),
		UserID:           user.ID,
		TokenType:        refreshTokenType,
	}

	return ts.sign(claims)
}

// Validate parses and verifies a token string, returning structured
// claims. Structural and signature failures are reported as
// ErrTokenMalformed, distinctly from ErrTokenExpired.
func (ts *TokenServiceImpl) Validate(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, jwt.WithTimeFunc(ts.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode claims")
	return nil, ErrTokenMalformed
}

// IsRefreshToken reports whether the token carries tokenType="refresh".
// Any parse failure means false.
func (ts *TokenServiceImpl) IsRefreshToken(tokenString string) bool {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return false
	}
	return claims.IsRefresh()
}

// ValidateForUser reports whether the token still binds to the stored
// identity and is not expired.
func (ts *TokenServiceImpl) ValidateForUser(tokenString string, user *User) bool {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return false
	}
	return claims.BindsTo(user) && !claims.ExpiredAt(ts.now())
}

func (ts *TokenServiceImpl) registeredClaims(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    ts.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (ts *TokenServiceImpl) sign(claims *TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

var _ TokenService = (*TokenServiceImpl)(nil)
