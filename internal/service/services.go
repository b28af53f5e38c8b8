package service

import (
	"github.com/stackkit/auth-starter/internal/config"
	"github.com/stackkit/auth-starter/internal/repository"
)

type Services struct {
	Auth *AuthService
	User *UserService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos, cfg),
		User: NewUserService(repos.User),
	}
}
