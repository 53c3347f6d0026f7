package database

import (
	"errors"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pairup-dev/pairup-server/internal/models"
)

func (d *Database) Connect() error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	// TranslateError surfaces unique-index violations as
	// gorm.ErrDuplicatedKey, which the room directory relies on for
	// concurrent first-contact recovery.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	err = db.AutoMigrate(
		&models.Member{},
		&models.Chatroom{},
		&models.Membership{},
		&models.Message{},
		&models.Block{},
		&models.FriendRequest{},
	)
	if err != nil {
		return err
	}

	d.db = db

	return nil
}
