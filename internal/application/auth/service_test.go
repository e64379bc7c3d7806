package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kidz-story-api/internal/config"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/mocks"
	apperrors "kidz-story-api/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *mocks.MockUserRepository) {
	users := mocks.NewMockUserRepository(t)
	cfg := &config.Config{}
	cfg.Security.JWT = config.JWTConfig{Secret: "s3cret", Issuer: "kidz-story-api", Expiration: time.Hour}
	cfg.Security.Admin = config.AdminConfig{Emails: []string{"Admin@Example.com"}}
	return NewService(users, cfg), users
}

func TestRegister_Success(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()

	users.On("ExistsByEmail", ctx, "ada@example.com").Return(false, nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "ada@example.com" && u.Provider == entity.ProviderCredentials && u.CheckPassword("secret1")
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.User).ID = "u-1"
	}).Return(nil)

	sess, err := svc.Register(ctx, " Ada@Example.com ", "secret1", "Ada")
	require.NoError(t, err)

	assert.Equal(t, "u-1", sess.User.ID)
	assert.EqualValues(t, 3600, sess.ExpiresIn)
	assert.False(t, sess.IsAdmin)

	claims, err := svc.JWT().ParseToken(sess.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	users.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "", "123", "")
	require.Error(t, err)
	assert.Equal(t, "Missing or invalid fields: email, password, fullName", apperrors.AsAppError(err).Message)
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, users := newTestService(t)
	users.On("ExistsByEmail", mock.Anything, "ada@example.com").Return(true, nil)

	_, err := svc.Register(context.Background(), "ada@example.com", "secret1", "Ada")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeEmailAlreadyUsed))
}

func TestLogin(t *testing.T) {
	svc, users := newTestService(t)
	admin := entity.NewUser("admin@example.com", "Admin", entity.ProviderCredentials)
	admin.ID = "a-1"
	require.NoError(t, admin.SetPassword("letmein"))

	users.On("GetByEmail", mock.Anything, "admin@example.com").Return(admin, nil)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	sess, err := svc.Login(context.Background(), "ADMIN@example.com", "letmein")
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin)

	_, err = svc.Login(context.Background(), "admin@example.com", "wrong")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidPassword))

	_, err = svc.Login(context.Background(), "nobody@example.com", "x")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidPassword))
}

func TestLogin_OAuthUserHasNoPassword(t *testing.T) {
	svc, users := newTestService(t)
	users.On("GetByEmail", mock.Anything, "g@example.com").Return(entity.NewUser("g@example.com", "G", ""), nil)

	_, err := svc.Login(context.Background(), "g@example.com", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidPassword))
}

func TestSyncOAuth_CreatesUser(t *testing.T) {
	svc, users := newTestService(t)
	users.On("GetByEmail", mock.Anything, "kid@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.FullName == defaultOAuthName && u.Provider == entity.ProviderGoogle &&
			u.Image != nil && *u.Image == "https://img" && u.PasswordHash == ""
	})).Return(nil)

	sess, err := svc.SyncOAuth(context.Background(), OAuthProfile{Email: "kid@example.com", Image: "https://img"})
	require.NoError(t, err)
	assert.Equal(t, "kid@example.com", sess.User.Email)
	users.AssertExpectations(t)
}

func TestSyncOAuth_ExistingUser(t *testing.T) {
	svc, users := newTestService(t)
	existing := entity.NewUser("kid@example.com", "Kid", entity.ProviderGoogle)
	existing.ID = "k-1"
	users.On("GetByEmail", mock.Anything, "kid@example.com").Return(existing, nil)

	sess, err := svc.SyncOAuth(context.Background(), OAuthProfile{Email: "kid@example.com", FullName: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "k-1", sess.User.ID)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCurrentUser(t *testing.T) {
	svc, users := newTestService(t)
	users.On("GetByID", mock.Anything, "missing").Return(nil, nil)
	users.On("GetByID", mock.Anything, "broken").Return(nil, errors.New("db down"))

	_, err := svc.CurrentUser(context.Background(), "")
	assert.Equal(t, 401, apperrors.AsAppError(err).HTTPStatus)

	_, err = svc.CurrentUser(context.Background(), "missing")
	assert.Equal(t, 400, apperrors.AsAppError(err).HTTPStatus)
	assert.Equal(t, "user was not found", apperrors.AsAppError(err).Message)

	_, err = svc.CurrentUser(context.Background(), "broken")
	assert.Equal(t, 500, apperrors.AsAppError(err).HTTPStatus)
}
