package dto

import (
	"time"

	domainuser "innkeep/internal/domain/user"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AssignRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

type UserView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type UserCollection struct {
	Items []UserView `json:"items"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

func MapUser(u *domainuser.User) UserView {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return UserView{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}

func MapUsers(users []*domainuser.User) UserCollection {
	out := UserCollection{Items: make([]UserView, 0, len(users))}
	for _, u := range users {
		out.Items = append(out.Items, MapUser(u))
	}
	return out
}
