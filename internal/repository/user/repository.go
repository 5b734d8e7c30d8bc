package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/xpanvictor/omniscribe/internal/domains/user"
	"gorm.io/gorm"
)

type GormUserRepo struct {
	db *gorm.DB
}

// Create implements user.UserRepository
func (g *GormUserRepo) Create(ctx context.Context, u *user.User) error {
	entity := NewUserEntityFromDomain(u)
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	*u = *entity.ToDomain()
	return nil
}

// GetByEmail implements user.UserRepository
func (g *GormUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var entity UserEntity
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return entity.ToDomain(), nil
}

// EmailExists implements user.UserRepository
func (g *GormUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&UserEntity{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func NewGormUserRepo(db *gorm.DB) user.UserRepository {
	return &GormUserRepo{db: db}
}
