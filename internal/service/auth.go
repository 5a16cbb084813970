package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/yoneltic/internal/models"
	"github.com/Skotchmaster/yoneltic/internal/repo"
	"github.com/Skotchmaster/yoneltic/internal/transport"
	"github.com/Skotchmaster/yoneltic/pkg/hash"
	"github.com/Skotchmaster/yoneltic/pkg/logging"
	"github.com/Skotchmaster/yoneltic/pkg/tokens"
)

type AuthService struct {
	Repo        *repo.GormRepo
	Tokens      tokens.Params
	AdminSecret string

	Now func() time.Time
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizeTiming burns one bcrypt comparison so unknown usernames cost the same as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = hash.HashPassword("yoneltic-timing-equalizer")
	})
	hash.CheckPassword(dummyHash, password)
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", req.Username)

	if s.AdminSecret == "" || subtle.ConstantTimeCompare([]byte(req.SecretKey), []byte(s.AdminSecret)) != 1 {
		l.Warn("register_rejected", "reason", "secret key mismatch")
		return fmt.Errorf("%w: invalid secret key", ErrValidation)
	}
	if req.Password != req.PasswordRepeat {
		l.Warn("register_rejected", "reason", "passwords differ")
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		l.Warn("register_rejected", "reason", "invalid input", "error", err)
		return err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return err
	}

	admin := models.Admin{Username: req.Username, PasswordHash: pwHash}
	if err := s.Repo.CreateAdminIfNotExists(ctx, &admin); err != nil {
		if errors.Is(err, repo.ErrAdminExists) {
			l.Warn("register_rejected", "reason", "username taken")
			return fmt.Errorf("%w: username is already taken", ErrValidation)
		}
		l.Error("register_error", "reason", "cannot create admin", "error", err)
		return err
	}

	l.Info("admin_registered", "admin_id", admin.ID)
	return nil
}

// Login trims the username the same way Register does before storing it.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	admin, err := s.Repo.GetAdminByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("login_error", "error", err)
			return nil, err
		}
		equalizeTiming(password)
		l.Warn("login_failed", "reason", "invalid username or password")
		return nil, ErrAuth
	}
	if !hash.CheckPassword(admin.PasswordHash, password) {
		l.Warn("login_failed", "reason", "invalid username or password")
		return nil, ErrAuth
	}

	token, exp, err := tokens.NewAccessToken(s.Tokens, strconv.FormatUint(uint64(admin.ID), 10), admin.Username, s.now())
	if err != nil {
		l.Error("login_error", "reason", "cannot sign token", "error", err)
		return nil, err
	}

	l.Info("login_success", "admin_id", admin.ID)
	return &LoginResult{Token: token, ExpiresAt: exp}, nil
}

func adminView(a models.Admin) transport.AdminView {
	return transport.AdminView{ID: a.ID, Username: a.Username, CreatedAt: a.CreatedAt}
}

func (s *AuthService) ListAdmins(ctx context.Context) ([]transport.AdminView, error) {
	items, err := s.Repo.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.AdminView, 0, len(items))
	for _, a := range items {
		out = append(out, adminView(a))
	}
	return out, nil
}

func (s *AuthService) GetAdmin(ctx context.Context, id uint) (*transport.AdminView, error) {
	a, err := s.Repo.GetAdmin(ctx, id)
	if err != nil {
		return nil, notFound(err, "admin", id)
	}
	v := adminView(*a)
	return &v, nil
}

// UpdateAdmin renames the admin and re-hashes the password only when a new one is given.
func (s *AuthService) UpdateAdmin(ctx context.Context, id uint, req transport.AdminUpdateRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.update_admin", "admin_id", id)

	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return err
	}

	var newHash string
	if req.Password != "" {
		h, err := hash.HashPassword(req.Password)
		if err != nil {
			return err
		}
		newHash = h
	}

	_, err := s.Repo.UpdateAdmin(ctx, id, func(a *models.Admin) error {
		a.Username = req.Username
		if newHash != "" {
			a.PasswordHash = newHash
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrAdminExists) {
			return fmt.Errorf("%w: username is already taken", ErrValidation)
		}
		return notFound(err, "admin", id)
	}

	l.Info("admin_updated", "password_changed", newHash != "")
	return nil
}

func (s *AuthService) DeleteAdmin(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteAdmin(ctx, id); err != nil {
		return notFound(err, "admin", id)
	}
	logging.FromContext(ctx).Info("admin_deleted", "admin_id", id)
	return nil
}
