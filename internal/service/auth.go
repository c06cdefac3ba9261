package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tumanina/internal/model"
	"tumanina/internal/repository"
	"tumanina/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("wrong password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
)

// bcrypt reads at most 72 bytes of a password.
const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

// LoginErrorMessage maps a login failure to the message shown on the login form.
func LoginErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	case errors.Is(err, ErrUserNotFound):
		return "المستخدم غير موجود"
	case errors.Is(err, ErrWrongPassword):
		return "كلمة المرور غير صحيحة"
	default:
		return "حدث خطأ أثناء تسجيل الدخول. يرجى المحاولة مرة أخرى"
	}
}

// Session is the signed-in user resolved for one request. Handlers receive it
// explicitly; the role is reloaded from the profile on every request.
type Session struct {
	UserID      string    `json:"uid"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name,omitempty"`
	SessionID   string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsAdmin reports whether the session may use the dashboard.
func (s *Session) IsAdmin() bool { return s != nil && s.Role == model.RoleAdmin }

// LoginResult carries the session token issued at sign-in.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Session   *Session  `json:"user"`
}

// AuthService signs users in and resolves session tokens.
type AuthService interface {
	// Login checks the password and issues a session token registered in the session registry.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Authenticate resolves a token to a live session. Revoked, expired or malformed
	// tokens and deleted users yield ErrUnauthenticated.
	Authenticate(ctx context.Context, token string) (*Session, error)

	// Logout revokes the token's session so every holder of it is signed out.
	Logout(ctx context.Context, token string) error

	// Provision creates a dashboard account.
	Provision(ctx context.Context, email, password, role, displayName string) (*model.UserProfile, error)
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	users    repository.UserRepository
	sessions session.Registry
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(users repository.UserRepository, sessions session.Registry, secret []byte, ttl time.Duration) AuthService {
	return &authService{users: users, sessions: sessions, secret: secret, ttl: ttl, now: time.Now}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrWrongPassword
		}
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	exp := now.Add(s.ttl)
	sid := uuid.NewString()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UID,
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if err := s.sessions.Create(ctx, sid, u.UID, s.ttl); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		Session:   newSession(u, sid, exp),
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*Session, error) {
	c, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	uid, err := s.sessions.Active(ctx, c.ID)
	if err != nil {
		if errors.Is(err, session.ErrRevoked) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("check session: %w", err)
	}
	if uid != c.Subject {
		return nil, ErrUnauthenticated
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	var exp time.Time
	if c.ExpiresAt != nil {
		exp = c.ExpiresAt.Time
	}
	return newSession(u, c.ID, exp), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	c, err := s.parse(token)
	if err != nil {
		// Nothing to revoke.
		return nil
	}
	return s.sessions.Revoke(ctx, c.ID)
}

func (s *authService) Provision(ctx context.Context, email, password, role, displayName string) (*model.UserProfile, error) {
	if len(password) < minPasswordLength {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "password",
			Tag:     "min",
			Message: fieldMessage("min", fmt.Sprint(minPasswordLength)),
		}}}
	}
	if len(password) > maxPasswordLength {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "password",
			Tag:     "max",
			Message: fieldMessage("max", fmt.Sprint(maxPasswordLength)),
		}}}
	}
	u := &model.UserProfile{
		UID:         uuid.NewString(),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Role:        role,
		DisplayName: strings.TrimSpace(displayName),
		CreatedAt:   s.now().UTC(),
	}
	if err := validateRecord(u); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, u.Email); err == nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "email", Tag: "unique", Message: "البريد الإلكتروني مستخدم بالفعل"}}}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *authService) parse(token string) (*claims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if c.ID == "" || c.Subject == "" {
		return nil, ErrUnauthenticated
	}
	return &c, nil
}

func newSession(u *model.UserProfile, sid string, exp time.Time) *Session {
	return &Session{
		UserID:      u.UID,
		Email:       u.Email,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		SessionID:   sid,
		ExpiresAt:   exp,
	}
}
