package handlers

import (
	"time"

	"lexid/internal/domain/account"
)

// AccountResponse is the public view of an account. The password hash
// and external provider id never leave the service.
type AccountResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	HasPassword bool      `json:"has_password"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthTokensResponse carries a freshly minted pair
type AuthTokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthResponse is the login/register/callback payload
type AuthResponse struct {
	Account AccountResponse    `json:"account"`
	Tokens  AuthTokensResponse `json:"tokens"`
}

func newAccountResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:          acc.ID(),
		Username:    acc.Username().String(),
		Email:       acc.Email().String(),
		DisplayName: acc.DisplayName(),
		AvatarURL:   acc.AvatarURL(),
		HasPassword: acc.HasPassword(),
		CreatedAt:   acc.CreatedAt(),
	}
}

func newAuthResponse(acc *account.Account, accessToken, refreshToken string, expiresIn int64) AuthResponse {
	return AuthResponse{
		Account: newAccountResponse(acc),
		Tokens: AuthTokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    expiresIn,
		},
	}
}
