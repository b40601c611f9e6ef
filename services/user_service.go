package services

import (
	"errors"
	"fmt"

	"smartapp-notes/smartapp/broker"
	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserServiceInterface interface {
	CreateUser(db *database.Database, user models.User) (models.User, error)
	GetUserById(db *database.Database, id uuid.UUID) (models.User, error)
	GetUserByUsername(db *database.Database, username string) (models.User, error)
}

type UserService struct{}

func (s *UserService) CreateUser(db *database.Database, user models.User) (models.User, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var existing int64
	if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&existing).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}
	if existing > 0 {
		tx.Rollback()
		return models.User{}, ErrUserExists
	}

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	if err := recordEvent(tx, broker.UserCreated, "user", "create", user.ID, map[string]interface{}{
		"user_id":  user.ID.String(),
		"username": user.Username,
	}); err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUserById(db *database.Database, id uuid.UUID) (models.User, error) {
	var user models.User
	if err := db.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(db *database.Database, username string) (models.User, error) {
	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

var UserServiceInstance UserServiceInterface = &UserService{}
