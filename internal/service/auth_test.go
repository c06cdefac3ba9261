package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tumanina/internal/model"
	"tumanina/internal/repository"
	"tumanina/internal/repository/memory"
	repoMocks "tumanina/internal/repository/mocks"
	"tumanina/internal/session"
)

var testSecret = []byte("test-secret-test-secret-test-secret")

func newAuth(t *testing.T) (*authService, *memory.Users) {
	t.Helper()
	users := memory.NewUsers()
	svc := NewAuthService(users, session.NewMemory(), testSecret, time.Hour).(*authService)
	return svc, users
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)

	admin, err := svc.Provision(ctx, " Admin@Example.com ", "s3cret-pass", model.RoleAdmin, "المشرف")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NotEmpty(t, admin.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", admin.PasswordHash)

	res, err := svc.Login(ctx, "ADMIN@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.True(t, res.Session.IsAdmin())

	sess, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.UID, sess.UserID)
	assert.Equal(t, "المشرف", sess.DisplayName)
	assert.True(t, sess.IsAdmin())

	require.NoError(t, svc.Logout(ctx, res.Token))
	_, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_Login_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, err := svc.Provision(ctx, "user@example.com", "correct-horse", model.RoleStudent, "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantMsg  string
	}{
		{name: "empty", email: "", password: "", wantErr: ErrInvalidCredentials, wantMsg: "البريد الإلكتروني أو كلمة المرور غير صحيحة"},
		{name: "unknown user", email: "nobody@example.com", password: "correct-horse", wantErr: ErrUserNotFound, wantMsg: "المستخدم غير موجود"},
		{name: "wrong password", email: "user@example.com", password: "battery", wantErr: ErrWrongPassword, wantMsg: "كلمة المرور غير صحيحة"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(ctx, tt.email, tt.password)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, LoginErrorMessage(err))
		})
	}

	assert.Equal(t, "حدث خطأ أثناء تسجيل الدخول. يرجى المحاولة مرة أخرى", LoginErrorMessage(errors.New("boom")))
}

func TestAuthService_StudentIsNotAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, err := svc.Provision(ctx, "student@example.com", "student-pass", model.RoleStudent, "")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "student@example.com", "student-pass")
	require.NoError(t, err)
	sess, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.False(t, sess.IsAdmin())

	var none *Session
	assert.False(t, none.IsAdmin())
}

func TestAuthService_Authenticate_RejectsTokens(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	u, err := svc.Provision(ctx, "admin@example.com", "admin-pass", model.RoleAdmin, "")
	require.NoError(t, err)
	res, err := svc.Login(ctx, "admin@example.com", "admin-pass")
	require.NoError(t, err)

	sign := func(c claims, key []byte, method jwt.SigningMethod) string {
		tok, err := jwt.NewWithClaims(method, c).SignedString(key)
		require.NoError(t, err)
		return tok
	}
	now := time.Now()
	valid := jwt.RegisteredClaims{Subject: u.UID, ID: res.Session.SessionID, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "wrong key", token: sign(claims{RegisteredClaims: valid}, []byte("other"), jwt.SigningMethodHS256)},
		{name: "wrong method", token: sign(claims{RegisteredClaims: valid}, testSecret, jwt.SigningMethodHS512)},
		{name: "expired", token: sign(claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: u.UID, ID: res.Session.SessionID, ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		}}, testSecret, jwt.SigningMethodHS256)},
		{name: "unknown session", token: sign(claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: u.UID, ID: "forged", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}, testSecret, jwt.SigningMethodHS256)},
		{name: "subject mismatch", token: sign(claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject: "someone-else", ID: res.Session.SessionID, ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}, testSecret, jwt.SigningMethodHS256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := svc.Authenticate(ctx, tt.token)
			assert.Nil(t, sess)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestAuthService_Authenticate_ReloadsRole(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	sessions := session.NewMemory()
	svc := NewAuthService(users, sessions, testSecret, time.Hour)

	require.NoError(t, sessions.Create(ctx, "sid-1", "u1", time.Hour))
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "u1", ID: "sid-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(testSecret)
	require.NoError(t, err)

	// The profile was demoted after the token was issued.
	users.On("FindByID", ctx, "u1").Return(&model.UserProfile{UID: "u1", Email: "a@example.com", Role: model.RoleStudent}, nil).Once()
	sess, err := svc.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.False(t, sess.IsAdmin())

	users.On("FindByID", ctx, "u1").Return(nil, repository.ErrNotFound).Once()
	_, err = svc.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	users.On("FindByID", ctx, "u1").Return(nil, errors.New("db down")).Once()
	_, err = svc.Authenticate(ctx, tok)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthenticated)
	users.AssertExpectations(t)
}

func TestAuthService_Provision_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		email      string
		password   string
		role       string
		setupMocks func(m *repoMocks.MockUserRepository)
		wantField  string
		wantErrMsg string
	}{
		{
			name:       "short password",
			email:      "a@example.com",
			password:   "short",
			role:       model.RoleAdmin,
			setupMocks: func(m *repoMocks.MockUserRepository) {},
			wantField:  "password",
		},
		{
			name:       "password over bcrypt limit",
			email:      "a@example.com",
			password:   strings.Repeat("كلمة", 10),
			role:       model.RoleAdmin,
			setupMocks: func(m *repoMocks.MockUserRepository) {},
			wantField:  "password",
		},
		{
			name:       "bad email",
			email:      "nope",
			password:   "long-enough",
			role:       model.RoleAdmin,
			setupMocks: func(m *repoMocks.MockUserRepository) {},
			wantField:  "email",
		},
		{
			name:       "bad role",
			email:      "a@example.com",
			password:   "long-enough",
			role:       "root",
			setupMocks: func(m *repoMocks.MockUserRepository) {},
			wantField:  "role",
		},
		{
			name:     "duplicate email",
			email:    "a@example.com",
			password: "long-enough",
			role:     model.RoleAdmin,
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("FindByEmail", ctx, "a@example.com").Return(&model.UserProfile{UID: "u1"}, nil)
			},
			wantField: "email",
		},
		{
			name:     "store error",
			email:    "a@example.com",
			password: "long-enough",
			role:     model.RoleAdmin,
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("FindByEmail", ctx, "a@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", ctx, mock.AnythingOfType("*model.UserProfile")).Return(errors.New("conflict"))
			},
			wantErrMsg: "create user: conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(repoMocks.MockUserRepository)
			tt.setupMocks(m)
			svc := NewAuthService(m, session.NewMemory(), testSecret, time.Hour)

			u, err := svc.Provision(ctx, tt.email, tt.password, tt.role, "")
			assert.Nil(t, u)
			if tt.wantField != "" {
				require.ErrorIs(t, err, ErrValidation)
				fields := FieldErrors(err)
				require.NotEmpty(t, fields)
				assert.Equal(t, tt.wantField, fields[0].Field)
			} else {
				assert.EqualError(t, err, tt.wantErrMsg)
			}
			m.AssertExpectations(t)
		})
	}
}
