package database

import (
	"fmt"

	transcriptRepo "github.com/xpanvictor/omniscribe/internal/repository/transcript"
	userRepo "github.com/xpanvictor/omniscribe/internal/repository/user"
	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userRepo.UserEntity{},
		&transcriptRepo.TranscriptEntity{},
		&transcriptRepo.SegmentEntity{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
