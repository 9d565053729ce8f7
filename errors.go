package auth

import (
	"github.com/goliatone/go-errors"
)

// ErrEmailTaken is returned when registration hits an existing email
var ErrEmailTaken = errors.New("user already exists with this email", errors.CategoryConflict).
	WithTextCode("EMAIL_TAKEN").
	WithCode(errors.CodeConflict)

// ErrPhoneTaken is returned when registration hits an existing phone number
var ErrPhoneTaken = errors.New("user already exists with this phone number", errors.CategoryConflict).
	WithTextCode("PHONE_TAKEN").
	WithCode(errors.CodeConflict)

// ErrUserNotFound is the error we return for unknown users
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode("USER_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrInvalidCredentials covers both bad passwords and deactivated
// accounts. One message for both keeps credential enumeration out of
// the response surface; the detailed reason only goes to the logs.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers structural and signature failures, reported
// distinctly from expiry
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrNotRefreshToken is returned when Refresh receives an access token
var ErrNotRefreshToken = errors.New("invalid refresh token", errors.CategoryAuth).
	WithTextCode("NOT_REFRESH_TOKEN").
	WithCode(errors.CodeUnauthorized)

// ErrTokenUserMismatch is returned when token claims no longer bind to
// the stored identity (stale email or reused id)
var ErrTokenUserMismatch = errors.New("token does not match user", errors.CategoryAuth).
	WithTextCode("TOKEN_USER_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyPassword is returned when hashing an empty password
var ErrNoEmptyPassword = errors.New("password must not be empty", errors.CategoryBadInput).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// IsConflict reports whether err is a duplicate email/phone outcome
func IsConflict(err error) bool {
	return hasCategory(err, errors.CategoryConflict)
}

// IsNotFound reports whether err is a missing user outcome
func IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}

// IsUnauthorized reports whether err is a credential or token outcome
func IsUnauthorized(err error) bool {
	return hasCategory(err, errors.CategoryAuth)
}

// IsValidation reports whether err is a malformed request outcome
func IsValidation(err error) bool {
	return hasCategory(err, errors.CategoryValidation) || hasCategory(err, errors.CategoryBadInput)
}

func hasCategory(err error, category errors.Category) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == category
}
