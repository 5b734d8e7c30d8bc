package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/omniscribe/internal/domains/user"
	"gorm.io/gorm"
)

// UserEntity represents the database entity for User with GORM tags
type UserEntity struct {
	ID        string    `gorm:"primaryKey;type:char(36);not null"`
	Email     string    `gorm:"uniqueIndex;type:varchar(191);not null"`
	Password  string    `gorm:"column:password_hash;type:char(60);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime(3)"`
}

func (UserEntity) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook to ensure UUID is set
func (u *UserEntity) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

func (u *UserEntity) ToDomain() *user.User {
	return &user.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
	}
}

func (u *UserEntity) FromDomain(domainUser *user.User) {
	u.ID = domainUser.ID
	u.Email = domainUser.Email
	u.Password = domainUser.Password
	u.CreatedAt = domainUser.CreatedAt
}

func NewUserEntityFromDomain(domainUser *user.User) *UserEntity {
	entity := &UserEntity{}
	entity.FromDomain(domainUser)
	return entity
}
