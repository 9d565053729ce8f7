package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates register, login, refresh, validate, and the
// verification transition. It holds no mutable shared state of its own;
// uniqueness and last-write-wins races on user records are resolved by
// the credential store's constraints.
type Auther struct {
	users        Users
	tokenService TokenService
	stateMachine VerificationStateMachine
	logger       Logger
	now          func() time.Time
}

// NewAuthenticator returns a new Authenticator over the given
// credential store and config.
func NewAuthenticator(users Users, cfg Config) *Auther {
	tokenService := NewTokenService(cfg)

	return &Auther{
		users:        users,
		tokenService: tokenService,
		stateMachine: NewVerificationStateMachine(users),
		logger:       defLogger{},
		now:          time.Now,
	}
}

// WithLogger sets the logger used by the engine. Detailed credential
// failure reasons go here and never into responses.
func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithStateMachine overrides the verification state machine
func (s *Auther) WithStateMachine(sm VerificationStateMachine) *Auther {
	if sm != nil {
		s.stateMachine = sm
	}
	return s
}

// WithClock injects a custom clock (useful for tests). The verification
// state machine is rebuilt so it shares the same clock.
func (s *Auther) WithClock(clock func() time.Time) *Auther {
	if clock != nil {
		s.now = clock
		s.stateMachine = NewVerificationStateMachine(s.users, WithStateMachineClock(clock))
	}
	return s
}

// TokenService returns the TokenService instance used by this engine
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Register creates a new account and returns a fresh token pair. The
// existence pre-checks are sequential and non atomic; the store's
// unique indexes are the source of truth for duplicates, the pre-checks
// only give the common case a cheaper failure.
func (s *Auther) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if !req.Role.IsValid() {
		return nil, errors.New("unknown role", errors.CategoryValidation).
			WithTextCode("INVALID_ROLE").
			WithMetadata(map[string]any{"role": req.Role})
	}

	if taken, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email existence")
	} else if taken {
		return nil, ErrEmailTaken
	}

	if taken, err := s.users.ExistsByPhone(ctx, req.PhoneNumber); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check phone existence")
	} else if taken {
		return nil, ErrPhoneTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	now := s.now()
	user := &User{
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		PasswordHash:   hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           req.Role,
		IsActive:       true,
		IsVerified:     req.Role.AutoVerified(),
		BloodType:      req.BloodType,
		LocationLat:    req.LocationLat,
		LocationLng:    req.LocationLng,
		OrganizationID: req.OrganizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	user, err = s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("registered user id=%d role=%s", user.ID, user.Role)

	return s.authResponse(user)
}

// Login authenticates the credentials and returns a fresh token pair
func (s *Auther) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Warn("login failed: invalid password user=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("login blocked: account deactivated user=%d", user.ID)
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TrackSuccessfulLogin(ctx, user, s.now()); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to track login")
	}

	return s.authResponse(user)
}

// Refresh rotates the pair. The presented refresh token is not consumed
// or blacklisted; it stays independently valid until its own expiry.
// Rotation here is not a revocation mechanism.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.tokenService.Validate(refreshToken)
	if err != nil {
		return nil, err
	}

	if !claims.IsRefresh() {
		return nil, ErrNotRefreshToken
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject())
	if err != nil {
		return nil, err
	}

	if !s.tokenService.ValidateForUser(refreshToken, user) {
		return nil, ErrTokenUserMismatch
	}

	return s.authResponse(user)
}

// ValidateToken verifies an access token and returns the bound user.
// Refresh typed tokens are rejected here: a refresh token only buys new
// access tokens, never access itself.
func (s *Auther) ValidateToken(ctx context.Context, token string) (*User, error) {
	claims, err := s.tokenService.Validate(token)
	if err != nil {
		return nil, err
	}

	if claims.IsRefresh() {
		return nil, ErrNotRefreshToken
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject())
	if err != nil {
		return nil, err
	}

	if !s.tokenService.ValidateForUser(token, user) {
		return nil, ErrTokenUserMismatch
	}

	return user, nil
}

// VerifyUser transitions the account to verified. Idempotent: repeat
// calls leave the flag set and only bump updatedAt.
func (s *Auther) VerifyUser(ctx context.Context, userID int64) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.stateMachine.Verify(ctx, ActorRef{Type: "system"}, user)
}

// GetUserProfile returns the full record; projection is the caller's call
func (s *Auther) GetUserProfile(ctx context.Context, userID int64) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Auther) authResponse(user *User) (*AuthResponse, error) {
	accessToken, err := s.tokenService.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenService.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:        accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenService.AccessTokenExpiration().Seconds()),
		User:         user.Public(),
	}, nil
}

var _ Authenticator = (*Auther)(nil)
