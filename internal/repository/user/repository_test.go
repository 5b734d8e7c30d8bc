package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/omniscribe/internal/domains/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) user.UserRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&UserEntity{}))
	return NewGormUserRepo(db)
}

func TestUserRepoLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u := &user.User{Email: "ada@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID, "BeforeCreate assigns an id")
	assert.False(t, u.CreatedAt.IsZero())

	exists, err := repo.EmailExists(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.Password)
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &user.User{Email: "ada@example.com", Password: "hash"}))
	err := repo.Create(ctx, &user.User{Email: "ada@example.com", Password: "other"})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
}

func TestUserRepoMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	exists, err := repo.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
