package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eats-backend/models"
)

var (
	errCreateAccount = errors.New("could not create account")
	errEditProfile   = errors.New("could not update profile")
	errVerifyEmail   = errors.New("could not verify email")
)

// Users owns accounts, login checks and email verification.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

type CreateAccountInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role" binding:"required,userrole"`
}

// CreateAccount registers a new user and issues their verification code.
func (s *Users) CreateAccount(in CreateAccountInput) (models.User, error) {
	var existing models.User
	err := s.db.Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return models.User{}, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("create account: check email %s: %v", in.Email, err)
		return models.User{}, errCreateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("create account: hash password: %v", err)
		return models.User{}, errCreateAccount
	}

	user := models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Verification{Code: uuid.NewString(), UserID: user.ID}).Error
	})
	if err != nil {
		log.Printf("create account: %v", err)
		return models.User{}, errCreateAccount
	}
	return user, nil
}

// Login checks credentials and returns the user on success.
func (s *Users) Login(email, password string) (models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		log.Printf("login: load user %s: %v", email, err)
		return models.User{}, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrWrongPassword
	}
	return user, nil
}

// Profile fetches a user by id.
func (s *Users) Profile(userID uint) (models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

type EditProfileInput struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// EditProfile updates email and/or password. An email change resets the
// verified flag and replaces the verification code.
func (s *Users) EditProfile(user models.User, in EditProfileInput) (models.User, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.Email != nil && *in.Email != user.Email {
			user.Email = *in.Email
			user.Verified = false
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Verification{}).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.Verification{Code: uuid.NewString(), UserID: user.ID}).Error; err != nil {
				return err
			}
		}
		if in.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user.PasswordHash = string(hash)
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		log.Printf("edit profile of user %d: %v", user.ID, err)
		return models.User{}, errEditProfile
	}
	return user, nil
}

// VerifyEmail consumes a verification code and marks its user verified.
func (s *Users) VerifyEmail(code string) error {
	var verification models.Verification
	if err := s.db.Where("code = ?", code).First(&verification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeNotFound
		}
		log.Printf("verify email: load code: %v", err)
		return errVerifyEmail
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", verification.UserID).Update("verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&verification).Error
	})
	if err != nil {
		log.Printf("verify email: %v", err)
		return errVerifyEmail
	}
	return nil
}
