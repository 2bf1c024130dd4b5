package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/stickynote/internal/model"
	appErr "github.com/xxxsen/stickynote/internal/pkg/errors"
	"github.com/xxxsen/stickynote/internal/pkg/jwt"
	"github.com/xxxsen/stickynote/internal/pkg/password"
	"github.com/xxxsen/stickynote/internal/pkg/timeutil"
	"github.com/xxxsen/stickynote/internal/repo"
)

const maxUsernameLength = 150

type AuthConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	CacheSize  int
	CacheTTL   time.Duration
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService owns accounts and turns bearer tokens into users. Resolved
// users are kept in a short-lived LRU so authenticated requests usually skip
// the users table. Deleted ids are remembered for one cache lifetime so a
// lookup racing the delete cannot put the user back.
type AuthService struct {
	users   *repo.UserRepo
	cfg     AuthConfig
	mu      sync.Mutex
	cache   *expirable.LRU[int64, model.User]
	deleted *expirable.LRU[int64, struct{}]
}

func NewAuthService(users *repo.UserRepo, cfg AuthConfig) *AuthService {
	s := &AuthService{users: users, cfg: cfg}
	if cfg.CacheSize > 0 && cfg.CacheTTL > 0 {
		s.cache = expirable.NewLRU[int64, model.User](cfg.CacheSize, nil, cfg.CacheTTL)
		s.deleted = expirable.NewLRU[int64, struct{}](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	verr := appErr.NewValidationError()
	if in.Email == "" {
		verr.Add("email", msgBlank)
	} else if !strings.Contains(in.Email, "@") {
		verr.Add("email", "Enter a valid email address.")
	}
	if in.Username == "" {
		verr.Add("username", msgBlank)
	} else if utf8.RuneCountInString(in.Username) > maxUsernameLength {
		verr.Add("username", "Ensure this field has no more than 150 characters.")
	}
	hash, err := password.Hash(in.Password)
	if errors.Is(err, password.ErrTooShort) {
		verr.Add("password", "Ensure this field has at least 8 characters.")
	} else if err != nil {
		return nil, err
	}
	if !verr.Empty() {
		return nil, verr
	}
	now := timeutil.NowMilli()
	user := &model.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrUnauthorized
		}
		return nil, err
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return nil, appErr.ErrUnauthorized
	}
	access, err := jwt.GenerateToken(user.ID, jwt.TypeAccess, s.cfg.Secret, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.GenerateToken(user.ID, jwt.TypeRefresh, s.cfg.Secret, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := jwt.ParseTyped(refreshToken, jwt.TypeRefresh, s.cfg.Secret)
	if err != nil {
		return "", appErr.ErrUnauthorized
	}
	if _, err := s.Resolve(ctx, claims.UserID); err != nil {
		return "", err
	}
	return jwt.GenerateToken(claims.UserID, jwt.TypeAccess, s.cfg.Secret, s.cfg.AccessTTL)
}

// Authenticate validates an access token and returns its user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := jwt.ParseTyped(accessToken, jwt.TypeAccess, s.cfg.Secret)
	if err != nil {
		return nil, appErr.ErrUnauthorized
	}
	return s.Resolve(ctx, claims.UserID)
}

// Resolve loads a user by id. A user that no longer exists is unauthorized.
func (s *AuthService) Resolve(ctx context.Context, userID int64) (*model.User, error) {
	if s.cache != nil {
		if user, ok := s.cache.Get(userID); ok {
			return &user, nil
		}
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrUnauthorized
		}
		return nil, err
	}
	if !s.remember(user) {
		return nil, appErr.ErrUnauthorized
	}
	return user, nil
}

// remember caches user unless it was deleted meanwhile.
func (s *AuthService) remember(user *model.User) bool {
	if s.cache == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted.Contains(user.ID) {
		return false
	}
	s.cache.Add(user.ID, *user)
	return true
}

func (s *AuthService) forget(userID int64) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted.Add(userID, struct{}{})
	s.cache.Remove(userID)
}

// DeleteAccount removes the user together with all of their notes.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.forget(userID)
	logutil.GetLogger(ctx).Info("user deleted", zap.Int64("user_id", userID))
	return nil
}
