package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coachloop/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrBadCredentials = errors.New("invalid username or password")

type AuthService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Manager, error) {
	var m model.Manager
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("load manager: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(m.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &m, nil
}

// UpsertManager creates the account or resets its password and display name.
func (s *AuthService) UpsertManager(ctx context.Context, username, password, name string) (*model.Manager, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	if name == "" {
		name = username
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var m model.Manager
	err = s.db.WithContext(ctx).Where("username = ?", username).First(&m).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		m = model.Manager{Username: username, Password: string(hash), Name: name}
		if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
			return nil, fmt.Errorf("create manager: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("load manager: %w", err)
	default:
		if err := s.db.WithContext(ctx).Model(&m).Updates(map[string]any{"password": string(hash), "name": name}).Error; err != nil {
			return nil, fmt.Errorf("update manager: %w", err)
		}
		m.Password, m.Name = string(hash), name
	}
	return &m, nil
}
