package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/svazquez/biblioteca-service/internal/errs"
	"github.com/svazquez/biblioteca-service/internal/model"
	"github.com/svazquez/biblioteca-service/pkg/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) RegisterUser(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	return s.register(ctx, req, model.RoleUser)
}

// RegisterAdmin is used by the seed tooling; it goes through the same
// create path and constraints as any registration.
func (s *Service) RegisterAdmin(ctx context.Context, req model.UserCreateRequest) (model.User, error) {
	return s.register(ctx, req, model.RoleAdmin)
}

func (s *Service) register(ctx context.Context, req model.UserCreateRequest, role string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	return s.repo.CreateUser(ctx, req.Username, req.Email, string(hash), role)
}

func (s *Service) Login(ctx context.Context, req model.AuthRequest) (model.TokenResponse, error) {
	user, err := s.repo.GetUser(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TokenResponse{}, errs.ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.TokenResponse{}, errs.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (model.TokenResponse, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return model.TokenResponse{}, err
	}
	// the user may have been deleted since the refresh token was issued
	user, err := s.repo.GetUser(ctx, claims.Profile.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.TokenResponse{}, auth.ErrInvalidToken
		}
		return model.TokenResponse{}, err
	}
	return s.issueTokens(user)
}

func (s *Service) Verify(tokenStr string) (*auth.Claims, error) {
	return s.tokens.Parse(tokenStr, auth.TokenTypeAccess)
}

// LoginWithProvider signs in a user authenticated by an external OAuth2
// provider, creating the local account on first login. The create is
// guarded by the unique index on username, so two racing first logins
// converge on the same account instead of trusting a prior read.
func (s *Service) LoginWithProvider(ctx context.Context, username, email string) (model.TokenResponse, error) {
	user, err := s.repo.GetUser(ctx, username)
	if errors.Is(err, errs.ErrNotFound) {
		hash, herr := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if herr != nil {
			return model.TokenResponse{}, errors.Wrap(herr, "hash password")
		}
		user, err = s.repo.CreateUser(ctx, username, email, string(hash), model.RoleUser)
		var conflict *errs.ConflictError
		if errors.As(err, &conflict) {
			user, err = s.repo.GetUser(ctx, username)
		}
	}
	if err != nil {
		return model.TokenResponse{}, err
	}
	s.log.Debug("provider login", zap.String("username", user.Username))
	return s.issueTokens(user)
}

func (s *Service) issueTokens(user model.User) (model.TokenResponse, error) {
	access, refresh, err := s.tokens.IssuePair(user.Username, user.Role, user.Email)
	if err != nil {
		return model.TokenResponse{}, errors.Wrap(err, "issue tokens")
	}
	return model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
