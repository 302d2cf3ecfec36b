package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"siperkat/infras/jwt"
	"siperkat/internal/domains/auth/model/dto"
	"siperkat/shared/timezone"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestUpdateLastLoginRequest(t *testing.T) {
	now := timezone.Now()

	req := dto.UpdateLastLoginRequest{
		LastLogin: now,
	}

	assert.Equal(t, now, req.LastLogin)
}

func TestUpdatePasswordRequest(t *testing.T) {
	hashedPassword := "hashed-new-password"

	req := dto.UpdatePasswordRequest{
		Password: hashedPassword,
	}

	assert.Equal(t, hashedPassword, req.Password)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "budi@kantor.go.id",
		NIP:      "198701012010121001",
		Password: "plaintext",
		FullName: stringPtr("Budi Santoso"),
	}

	user := req.ToUserModel("guest", "hashed-password", "admin")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, req.Email, user.Email)
	assert.Equal(t, req.NIP, user.NIP)
	assert.Equal(t, "hashed-password", user.Password)
	assert.Equal(t, "admin", user.Level)
	assert.Equal(t, req.FullName, user.FullName)
	assert.True(t, user.IsVerified)
	assert.True(t, user.Active)
	assert.Equal(t, "guest", user.CreatedBy)
	assert.Equal(t, "guest", user.ModifiedBy)
}

// Helper function to create string pointer
func stringPtr(s string) *string {
	return &s
}
