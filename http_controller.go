package auth

import (
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// AuthControllerRoutes holds the mounted paths
type AuthControllerRoutes struct {
	Register string
	Login    string
	Refresh  string
	Validate string
	Profile  string
	User     string
	Verify   string
	Health   string
	Info     string
}

// AuthController exposes the engine over HTTP. Status code mapping and
// request shape validation live here and nowhere deeper.
type AuthController struct {
	Logger Logger
	Auth   Authenticator
	Routes *AuthControllerRoutes
}

// AuthControllerOption configures the controller
type AuthControllerOption func(*AuthController) *AuthController

// NewAuthController returns a controller with default routes
func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Refresh:  "/auth/refresh",
			Validate: "/auth/validate",
			Profile:  "/auth/profile",
			User:     "/auth/user/:id",
			Verify:   "/auth/verify/:id",
			Health:   "/auth/health",
			Info:     "/auth/info",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerAuthenticator sets the engine behind the controller
func WithControllerAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auth = auther
		return c
	}
}

// RegisterAuthRoutes mounts the auth endpoints on the app
func RegisterAuthRoutes(app *fiber.App, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Refresh, controller.RefreshPost)
	app.Get(controller.Routes.Validate, controller.ValidateGet)
	app.Get(controller.Routes.Profile, controller.ProfileGet)
	app.Get(controller.Routes.User, controller.UserGet)
	app.Post(controller.Routes.Verify, controller.VerifyPost)
	app.Get(controller.Routes.Health, controller.HealthGet)
	app.Get(controller.Routes.Info, controller.InfoGet)

	return controller
}

type registerPayload struct {
	Email          string   `json:"email"`
	PhoneNumber    string   `json:"phone_number"`
	Password       string   `json:"password"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Role           string   `json:"role"`
	BloodType      string   `json:"blood_type"`
	LocationLat    *float64 `json:"location_lat"`
	LocationLng    *float64 `json:"location_lng"`
	OrganizationID *int64   `json:"organization_id"`
}

func (r registerPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.PhoneNumber, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Role, validation.Required),
	)
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type refreshPayload struct {
	RefreshToken string `json:"refreshToken"`
}

// RegisterPost handles POST /auth/register
func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := registerPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "malformed request body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	role, ok := ParseRole(payload.Role)
	if !ok {
		return badRequest(c, "unknown role")
	}

	phone, err := normalizePhone(payload.PhoneNumber)
	if err != nil {
		return badRequest(c, "invalid phone number")
	}

	resp, err := a.Auth.Register(c.Context(), RegisterRequest{
		Email:          payload.Email,
		PhoneNumber:    phone,
		Password:       payload.Password,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Role:           role,
		BloodType:      payload.BloodType,
		LocationLat:    payload.LocationLat,
		LocationLng:    payload.LocationLng,
		OrganizationID: payload.OrganizationID,
	})
	if err != nil {
		a.Logger.Warn("register failed: %v", err)
		return sendError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(resp)
}

// LoginPost handles POST /auth/login
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := loginPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "malformed request body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	resp, err := a.Auth.Login(c.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Warn("login failed: %v", err)
		return sendError(c, err)
	}

	return c.JSON(resp)
}

// RefreshPost handles POST /auth/refresh
func (a *AuthController) RefreshPost(c *fiber.Ctx) error {
	payload := refreshPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, "malformed request body")
	}

	if payload.RefreshToken == "" {
		return badRequest(c, "refreshToken is required")
	}

	resp, err := a.Auth.Refresh(c.Context(), payload.RefreshToken)
	if err != nil {
		a.Logger.Warn("refresh failed: %v", err)
		return sendError(c, err)
	}

	return c.JSON(resp)
}

// ValidateGet handles GET /auth/validate
func (a *AuthController) ValidateGet(c *fiber.Ctx) error {
	token := TokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"valid":   false,
			"message": "Missing or invalid token",
		})
	}

	user, err := a.Auth.ValidateToken(c.Context(), token)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"valid":   false,
			"message": "Invalid token",
		})
	}

	return c.JSON(fiber.Map{
		"valid":      true,
		"userId":     user.ID,
		"email":      user.Email,
		"role":       user.Role,
		"isVerified": user.IsVerified,
	})
}

// ProfileGet handles GET /auth/profile
func (a *AuthController) ProfileGet(c *fiber.Ctx) error {
	token := TokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return c.SendStatus(http.StatusUnauthorized)
	}

	user, err := a.Auth.ValidateToken(c.Context(), token)
	if err != nil {
		return sendError(c, err)
	}

	profile, err := a.Auth.GetUserProfile(c.Context(), user.ID)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(profile.Public())
}

// UserGet handles GET /auth/user/:id for inter-service lookups; the
// APIKeyFilter middleware gates this path.
func (a *AuthController) UserGet(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	user, err := a.Auth.GetUserProfile(c.Context(), id)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(user.Public())
}

// VerifyPost handles POST /auth/verify/:id
func (a *AuthController) VerifyPost(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	user, err := a.Auth.VerifyUser(c.Context(), id)
	if err != nil {
		a.Logger.Warn("verify failed user=%d: %v", id, err)
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "User verified successfully",
		"userId":     user.ID,
		"isVerified": user.IsVerified,
	})
}

// HealthGet handles GET /auth/health
func (a *AuthController) HealthGet(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "UP",
		"service":   "VitaSync Auth Service",
		"timestamp": time.Now().UnixMilli(),
	})
}

// InfoGet handles GET /auth/info
func (a *AuthController) InfoGet(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"serviceName": "VitaSync Authentication Service",
		"version":     "1.0.0",
		"description": "Microservice for user authentication in VitaSync blood logistics platform",
		"features": []string{
			"User Registration",
			"JWT Authentication",
			"Role-based Authorization",
			"Token Refresh",
			"User Profile Management",
		},
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return sendError(c, errors.New(msg, errors.CategoryValidation).
		WithCode(errors.CodeBadRequest))
}

// normalizePhone validates and canonicalizes phone numbers to E.164.
// Numbers must arrive with a country prefix; there is no default region.
func normalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", errors.New("invalid phone number", errors.CategoryValidation)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
