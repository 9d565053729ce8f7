package auth

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// User is the durable identity record. It carries no behavior beyond
// projections; capability checks live in IsEnabled and Authorities.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID             int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PhoneNumber    string     `bun:"phone_number,notnull,unique" json:"phone_number,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	FirstName      string     `bun:"first_name,notnull" json:"first_name,omitempty"`
	LastName       string     `bun:"last_name,notnull" json:"last_name,omitempty"`
	Role           Role       `bun:"role,notnull" json:"role,omitempty"`
	IsActive       bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	IsVerified     bool       `bun:"is_verified,notnull,default:false" json:"is_verified"`
	BloodType      string     `bun:"blood_type,nullzero" json:"blood_type,omitempty"`
	LocationLat    *float64   `bun:"location_lat" json:"location_lat,omitempty"`
	LocationLng    *float64   `bun:"location_lng" json:"location_lng,omitempty"`
	OrganizationID *int64     `bun:"organization_id" json:"organization_id,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at,omitempty"`
	LastLogin      *time.Time `bun:"last_login,nullzero" json:"last_login,omitempty"`
}

// FullName returns the display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Public returns the outward projection of the user. The password hash
// is never serialized outward.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		PhoneNumber:    u.PhoneNumber,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		IsVerified:     u.IsVerified,
		BloodType:      u.BloodType,
		OrganizationID: u.OrganizationID,
		LastLogin:      u.LastLogin,
	}
}

// PublicUser is the projection returned to callers. Field names follow
// the wire contract the platform's other services consume.
type PublicUser struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phoneNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Role           Role       `json:"role"`
	IsVerified     bool       `json:"isVerified"`
	BloodType      string     `json:"bloodType,omitempty"`
	OrganizationID *int64     `json:"organizationId,omitempty"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

// AuthResponse is the bundle returned by Register, Login, and Refresh
type AuthResponse struct {
	Token        string      `json:"token"`
	TokenType    string      `json:"tokenType"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"`
	User         *PublicUser `json:"user"`
}

// RegisterRequest carries the attributes needed to create an account
type RegisterRequest struct {
	Email          string   `json:"email"`
	PhoneNumber    string   `json:"phone_number"`
	Password       string   `json:"password"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Role           Role     `json:"role"`
	BloodType      string   `json:"blood_type,omitempty"`
	LocationLat    *float64 `json:"location_lat,omitempty"`
	LocationLng    *float64 `json:"location_lng,omitempty"`
	OrganizationID *int64   `json:"organization_id,omitempty"`
}
