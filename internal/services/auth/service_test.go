package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"kharcha/internal/models"
	"kharcha/internal/repositories"
	"kharcha/internal/services/wallet"
)

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	if user.TokenVersion == 0 {
		user.TokenVersion = 1
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Update(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) IncrementTokenVersion(userID uint) error {
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.TokenVersion++
	return nil
}

type seedingWallets struct {
	seeded []uint
}

func (w *seedingWallets) GetBalances(ctx context.Context, userID uint) (*wallet.Balances, error) {
	return &wallet.Balances{}, nil
}

func (w *seedingWallets) EnsureBalances(ctx context.Context, userID uint) error {
	w.seeded = append(w.seeded, userID)
	return nil
}

func (w *seedingWallets) ApplyDebit(ctx context.Context, userID uint, method models.PaymentMethod, amount float64) error {
	return nil
}

func (w *seedingWallets) ReverseDebit(ctx context.Context, userID uint, method models.PaymentMethod, amount float64) error {
	return nil
}

func (w *seedingWallets) Apply(ctx context.Context, userID uint, op wallet.Op, record func(tx repositories.LedgerRepository) error) error {
	return nil
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates the user and seeds both wallet buckets", func(t *testing.T) {
		repo := newFakeUserRepo()
		wallets := &seedingWallets{}
		service := NewService(repo, wallets)

		user, err := service.Register(context.Background(), "Asha", "asha@example.com", "s3cret!pass")
		assert.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "active", user.Status)
		assert.NotEqual(t, "s3cret!pass", user.Password)
		assert.Equal(t, []uint{user.ID}, wallets.seeded)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		service := NewService(newFakeUserRepo(), &seedingWallets{})

		_, err := service.Register(context.Background(), "Asha", "asha@example.com", "short!")
		assert.Error(t, err)

		_, err = service.Register(context.Background(), "Asha", "asha@example.com", "nospecialchars1")
		assert.Error(t, err)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		service := NewService(newFakeUserRepo(), &seedingWallets{})

		_, err := service.Register(context.Background(), "Asha", "asha@example.com", "s3cret!pass")
		assert.NoError(t, err)
		_, err = service.Register(context.Background(), "Other", "asha@example.com", "s3cret!pass")
		assert.Error(t, err)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewService(repo, &seedingWallets{})

	user, err := service.Register(context.Background(), "Asha", "asha@example.com", "s3cret!pass")
	assert.NoError(t, err)
	oldVersion := user.TokenVersion

	t.Run("wrong old password", func(t *testing.T) {
		err := service.ChangePassword(user.ID, "wrong!pass", "n3w!password")
		assert.Error(t, err)
	})

	t.Run("changes the hash and bumps the token version", func(t *testing.T) {
		err := service.ChangePassword(user.ID, "s3cret!pass", "n3w!password")
		assert.NoError(t, err)

		stored, err := repo.GetByID(user.ID)
		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("n3w!password")))
		assert.Equal(t, oldVersion+1, stored.TokenVersion)
	})
}

func TestAuthService_Logout(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewService(repo, &seedingWallets{})

	user, err := service.Register(context.Background(), "Asha", "asha@example.com", "s3cret!pass")
	assert.NoError(t, err)

	assert.NoError(t, service.Logout(user.ID))

	version, err := service.GetUserTokenVersion(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, version)
}
