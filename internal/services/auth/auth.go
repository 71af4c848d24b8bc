// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/grigormateeev/complaints-tracker/internal/lib/jwt"
	"github.com/grigormateeev/complaints-tracker/internal/lib/password"
	"github.com/grigormateeev/complaints-tracker/internal/models"
	"github.com/grigormateeev/complaints-tracker/internal/storage/repository"
)

// ErrInvalidCredentials — неизвестный пользователь или неверный пароль.
// Наружу уходит одинаково для обоих случаев.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "user",
// возвращает выписанный JWT и роль. Дубликат имени отдаёт repository.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) (string, models.Role, error) {
	token, err := s.createUser(ctx, username, rawPassword, models.RoleUser)
	return token, models.RoleUser, err
}

// CreateAdmin создает нового пользователя с ролью "admin".
// Проверка, что вызывающий сам администратор, выполняется на уровне API.
func (s *AuthService) CreateAdmin(ctx context.Context, username, rawPassword string) error {
	_, err := s.createUser(ctx, username, rawPassword, models.RoleAdmin)
	return err
}

func (s *AuthService) createUser(ctx context.Context, username, rawPassword string, role models.Role) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		UID:          uuid.NewString(),
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}
	return s.jwtMaker.GenerateToken(username, role.String(), uid)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, models.Role, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role.String(), user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает идентичность пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (models.Identity, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Identity{}, err
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return models.Identity{}, fmt.Errorf("token carries %w", err)
	}
	return models.Identity{
		Username: claims.Username,
		UserUID:  claims.UserUID,
		Role:     role,
	}, nil
}

// EnsureDefaultAdmin создает администратора по умолчанию, если пользователя
// с таким именем ещё нет. Операция идемпотентна и выполняется при старте.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, rawPassword string) error {
	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	return s.CreateAdmin(ctx, username, rawPassword)
}
