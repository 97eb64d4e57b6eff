// Package auth implements account registration, login and bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskcal/internal/apperr"
	"taskcal/internal/models"
	"taskcal/internal/storage"
)

// ErrInvalidCredentials covers unknown accounts, wrong passwords and
// deactivated users alike, so login failures do not leak which it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues and verifies credentials against the user store.
type Service struct {
	store    *storage.Store
	secret   []byte
	tokenTTL time.Duration
}

// New builds an auth service signing tokens with secret.
func New(store *storage.Store, secret string, tokenTTL time.Duration) *Service {
	return &Service{store: store, secret: []byte(secret), tokenTTL: tokenTTL}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// Register creates a new active account with a hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" {
		return models.User{}, apperr.NewValidation("username", "must not be empty")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return models.User{}, apperr.NewValidation("email", "must be a valid address")
	}
	if len(in.Password) < 6 {
		return models.User{}, apperr.NewValidation("password", "must be at least 6 characters")
	}

	if _, err := s.store.UserByLogin(ctx, in.Username); err == nil {
		return models.User{}, apperr.NewValidation("username", "already taken")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, err
	}
	if _, err := s.store.UserByLogin(ctx, in.Email); err == nil {
		return models.User{}, apperr.NewValidation("email", "already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Active:       true,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies the password for a username or email and returns the user
// together with a signed bearer token. The last-login timestamp is updated.
func (s *Service) Login(ctx context.Context, login, password string) (models.User, string, error) {
	user, err := s.store.UserByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}
	if !user.Active {
		return models.User{}, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	last := models.NewLocalTime(time.Now().In(models.Location()))
	user.LastLoginAt = &last
	if err := s.store.SaveUser(ctx, &user); err != nil {
		return models.User{}, "", err
	}

	token, err := s.issue(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (s *Service) issue(user models.User) (string, error) {
	nowt := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(nowt),
		ExpiresAt: jwt.NewNumericDate(nowt.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns the account id it belongs to.
func (s *Service) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredentials
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidCredentials
	}
	return id, nil
}
