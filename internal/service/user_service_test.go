package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/exam-prep-api/internal/models"
	"github.com/noah-isme/exam-prep-api/internal/repository"
)

type brokenUserStore struct{}

func (brokenUserStore) CreateUser(context.Context, *models.User) error {
	return errors.New("insert failed")
}

func (brokenUserStore) FindUserByID(context.Context, int64) (*models.User, error) {
	return nil, errors.New("select failed")
}

func (brokenUserStore) FindUserByUsername(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func newUserService() (*UserService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return NewUserService(store, validator.New(), zap.NewNop(), bcrypt.MinCost), store
}

func TestUserServiceCreate(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserRequest{Username: " alice ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	stored, err := store.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestUserServiceCreateDuplicate(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateUserRequest{Username: "alice", Password: "another1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, statusOf(err))
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc, _ := newUserService()
	_, err := svc.Create(context.Background(), CreateUserRequest{Username: "bob", Password: "123"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

func TestUserServiceLogin(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateUserRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestUserServiceGet(t *testing.T) {
	svc, _ := newUserService()
	_, err := svc.Get(context.Background(), 42)
	assert.Equal(t, http.StatusNotFound, statusOf(err))

	broken := NewUserService(brokenUserStore{}, nil, nil, 0)
	_, err = broken.Get(context.Background(), 1)
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))

	_, err = broken.Create(context.Background(), CreateUserRequest{Username: "carol", Password: "secret1"})
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
}
