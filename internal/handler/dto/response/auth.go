package response

import (
	"parkshare/internal/usecase/commands"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CommunityID uuid.UUID `json:"communityId"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

func FromAuthenticatedUser(u *commands.AuthenticatedUser) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		CommunityID: u.CommunityID,
	}
}
