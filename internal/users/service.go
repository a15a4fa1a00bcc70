package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-matcher/internal/shared/util"
)

var (
	ErrInvalidEmail  = errors.New("a valid email is required")
	ErrNameRequired  = errors.New("name is required")
	ErrPhoneRequired = errors.New("phone is required")
)

type Service struct {
	Repo Repo
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

// SaveProfile validates and upserts a profile. All three fields are required.
func (s *Service) SaveProfile(ctx context.Context, name, email, phone string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	email = util.NormalizeEmail(email)
	switch {
	case !util.ValidEmail(email):
		return User{}, ErrInvalidEmail
	case name == "":
		return User{}, ErrNameRequired
	case phone == "":
		return User{}, ErrPhoneRequired
	}
	now := s.now().UTC()
	user := User{Email: email, Name: name, Phone: phone, CreatedAt: now, UpdatedAt: now}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	if existing, err := s.Repo.FindByEmail(ctx, email); err == nil {
		return existing, nil
	}
	return user, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = util.NormalizeEmail(email)
	if !util.ValidEmail(email) {
		return User{}, ErrInvalidEmail
	}
	return s.Repo.FindByEmail(ctx, email)
}
