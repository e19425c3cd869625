package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/iliyamo/notes-api/internal/apperror"
	"github.com/iliyamo/notes-api/internal/repository"
	"github.com/iliyamo/notes-api/internal/utils"
)

// AuthService creates accounts and exchanges credentials for identity
// tokens.
type AuthService struct {
	Users      UserStore
	JWTSecret  string
	BcryptCost int
}

func NewAuthService(users UserStore, jwtSecret string, bcryptCost int) *AuthService {
	return &AuthService{Users: users, JWTSecret: jwtSecret, BcryptCost: bcryptCost}
}

// NormalizeEmail lower-cases and trims an email address so that values
// differing only in case or surrounding whitespace hit the same uniqueness
// constraint.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates a user and returns an identity token for immediate
// sign-in. Any store failure, including duplicate username or email, comes
// back as a generic account-creation error; the cause is logged server-side
// and never leaks to the caller.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return "", apperror.NewAccountCreation("error creating account", err)
	}
	uid, err := s.Users.Create(ctx, username, email, hash)
	if err != nil {
		log.Printf("signup: create user %q failed: %v", username, err)
		return "", apperror.NewAccountCreation("error creating account", err)
	}
	token, err := utils.NewIdentityToken(s.JWTSecret, uid)
	if err != nil {
		return "", apperror.NewAccountCreation("error creating account", err)
	}
	return token, nil
}

// SignIn looks up a user by username or normalized email and verifies the
// password. The failure message is identical whether the account does not
// exist or the password is wrong, so callers cannot probe which accounts
// exist.
func (s *AuthService) SignIn(ctx context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		login = NormalizeEmail(login)
	}

	u, err := s.Users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apperror.NewAuthentication("error signing in", nil)
		}
		return "", apperror.NewDatabase("sign in failed", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return "", apperror.NewAuthentication("error signing in", nil)
	}
	token, err := utils.NewIdentityToken(s.JWTSecret, u.ID)
	if err != nil {
		return "", apperror.NewDatabase("sign in failed", err)
	}
	return token, nil
}
