package auth_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	auth "github.com/vitasync/go-auth"
)

func TestUserPublicProjection(t *testing.T) {
	org := int64(42)
	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	user := &auth.User{
		ID:             7,
		Email:          "donor@vitasync.org",
		PhoneNumber:    "+14155552671",
		PasswordHash:   "$2a$12$secret",
		FirstName:      "Dana",
		LastName:       "Donor",
		Role:           auth.RoleDonor,
		IsActive:       true,
		IsVerified:     true,
		BloodType:      "O-",
		OrganizationID: &org,
		LastLogin:      &last,
	}

	pub := user.Public()
	assert.Equal(t, user.ID, pub.ID)
	assert.Equal(t, user.Email, pub.Email)
	assert.Equal(t, user.Role, pub.Role)
	assert.Equal(t, &org, pub.OrganizationID)

	raw, err := json.Marshal(pub)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), `"phoneNumber":"+14155552671"`)
	assert.Contains(t, string(raw), `"isVerified":true`)
}

func TestUserFullName(t *testing.T) {
	user := &auth.User{FirstName: "Dana", LastName: "Donor"}
	assert.Equal(t, "Dana Donor", user.FullName())

	user = &auth.User{FirstName: "Dana"}
	assert.Equal(t, "Dana", user.FullName())
}
