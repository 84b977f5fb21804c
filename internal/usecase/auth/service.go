package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/auth"
)

type Service struct {
	userRepo       repository.UserRepository
	jwtSvc         *auth.JWTService
	passwordHasher *auth.PasswordHasher
}

func NewService(userRepo repository.UserRepository, jwtSvc *auth.JWTService, passwordHasher *auth.PasswordHasher) *Service {
	return &Service{
		userRepo:       userRepo,
		jwtSvc:         jwtSvc,
		passwordHasher: passwordHasher,
	}
}

type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*entity.User, *Token, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, nil, domain.ErrUserAlreadyExists
	}

	hash, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := entity.NewUser(input.Email, hash, input.Name)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("creating user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*Token, *entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := s.passwordHasher.Compare(user.PasswordHash, input.Password); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, nil, err
	}

	return token, user, nil
}

func (s *Service) issueToken(user *entity.User) (*Token, error) {
	accessToken, expiresAt, err := s.jwtSvc.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}
	return &Token{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}
