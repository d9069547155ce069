package services

import (
	"context"
	"strings"

	"lifora/internal/models"
	"lifora/internal/repository"
	"lifora/internal/utils"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 6

type RegisterInput struct {
	Username       string
	Name           string
	Email          string
	Password       string
	ProfilePicture string
}

type ProfileInput struct {
	Name           *string
	ProfilePicture *string
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	User  models.AuthorProfile `json:"user"`
	Token string               `json:"token"`
}

// ProfileInvalidator is notified when a user's public profile changes.
type ProfileInvalidator interface {
	Invalidate(id string)
}

type AuthService struct {
	users       repository.UserStore
	tokens      *TokenIssuer
	invalidator ProfileInvalidator
}

func NewAuthService(users repository.UserStore, tokens *TokenIssuer, invalidator ProfileInvalidator) *AuthService {
	return &AuthService{users: users, tokens: tokens, invalidator: invalidator}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, InvalidArgument("email and password are required")
	}
	if utils.UsernameFromEmail(email) == "" {
		return nil, InvalidArgument("invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, InvalidArgument("password must be at least 6 characters")
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = utils.UsernameFromEmail(email)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = username
	}
	picture := strings.TrimSpace(in.ProfilePicture)
	if picture == "" {
		picture = utils.GetRandomEmoji()
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, Internal("hash password", err)
	}

	u := &models.User{
		Username:       username,
		Name:           name,
		Email:          email,
		Password:       hash,
		ProfilePicture: picture,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("email or username already registered")
		}
		logrus.WithError(err).Error("create user failed")
		return nil, Internal("create user", err)
	}

	logrus.WithField("user_id", u.ID).Info("user registered")
	return s.result(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, InvalidArgument("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, Internal("load user", err)
	}
	if !utils.CheckPasswordHash(password, u.Password) {
		return nil, Unauthorized("invalid email or password")
	}
	return s.result(u)
}

func (s *AuthService) Me(ctx context.Context, r Requester) (*models.AuthorProfile, error) {
	u, err := s.load(ctx, r)
	if err != nil {
		return nil, err
	}
	p := u.Profile()
	return &p, nil
}

// UpdateProfile changes the display fields of the requester's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, r Requester, in ProfileInput) (*models.AuthorProfile, error) {
	u, err := s.load(ctx, r)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, InvalidArgument("name cannot be empty")
		}
		u.Name = name
	}
	if in.ProfilePicture != nil {
		u.ProfilePicture = strings.TrimSpace(*in.ProfilePicture)
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Unauthorized("user no longer exists")
		}
		return nil, Internal("update user", err)
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(u.ID)
	}

	p := u.Profile()
	return &p, nil
}

func (s *AuthService) load(ctx context.Context, r Requester) (*models.User, error) {
	if r.UserID == "" {
		return nil, Unauthorized("authentication required")
	}
	u, err := s.users.GetByID(ctx, r.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, Internal("load user", err)
	}
	return u, nil
}

func (s *AuthService) result(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, Internal("issue token", err)
	}
	return &AuthResult{User: u.Profile(), Token: token}, nil
}
