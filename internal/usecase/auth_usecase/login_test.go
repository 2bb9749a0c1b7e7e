package auth_test

import (
	"context"
	"testing"
	"time"

	"shop/internal/domain/model"
	"shop/internal/repository"
	auth "shop/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeVerifier struct{}

func (v *fakeVerifier) Verify(plain string, hashed string) bool {
	return hashed == "hashed:"+plain
}

type fakeIssuer struct{}

func (i *fakeIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return "token", now.Add(15 * time.Minute), nil
}

func newLoginUC(repoMock *UserRepoMock) *auth.LoginUsecase {
	clock := &fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return auth.NewLoginUsecase(repoMock, &fakeVerifier{}, &fakeIssuer{}, clock)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repoMock := new(UserRepoMock)
	uc := newLoginUC(repoMock)

	repoMock.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	repoMock := new(UserRepoMock)
	uc := newLoginUC(repoMock)

	repoMock.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID:           1,
		Email:        "taro@example.com",
		PasswordHash: "hashed:correct-password",
		IsActive:     true,
	}, nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "taro@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	repoMock := new(UserRepoMock)
	uc := newLoginUC(repoMock)

	repoMock.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID:           1,
		Email:        "taro@example.com",
		PasswordHash: "hashed:correct-password",
		IsActive:     false,
	}, nil)

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "taro@example.com",
		Password: "correct-password",
	})
	assert.ErrorIs(t, err, auth.ErrUserInactive)
}

func TestLogin_Success_UpdatesLastLogin(t *testing.T) {
	repoMock := new(UserRepoMock)
	uc := newLoginUC(repoMock)

	repoMock.On("FindByEmail", mock.Anything, "taro@example.com").Return(&model.User{
		ID:           1,
		Email:        "taro@example.com",
		PasswordHash: "hashed:correct-password",
		Role:         model.RoleUser,
		IsActive:     true,
	}, nil)
	repoMock.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == 1 && u.LastLoginAt != nil
	})).Return(nil)

	out, err := uc.Execute(context.Background(), auth.LoginInput{
		Email:    "taro@example.com",
		Password: "correct-password",
	})
	assert.NoError(t, err)
	assert.Equal(t, "token", out.Token.AccessToken)
	assert.Equal(t, int(15*time.Minute/time.Second), out.Token.ExpiresIn)
	assert.NotNil(t, out.User.LastLoginAt)

	repoMock.AssertExpectations(t)
}
