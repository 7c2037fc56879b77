package service

import (
	"context"
	"log/slog"
	"strings"

	"meetup/internal/mailer"
	"meetup/internal/middleware"
	"meetup/internal/models"
	"meetup/internal/repository"
	"meetup/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   repository.UserRepository
	mail       mailer.Mailer
	bcryptCost int
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Password  string `json:"password" validate:"required"`
}

func NewUserService(userRepo repository.UserRepository, mail mailer.Mailer) *UserService {
	return &UserService{userRepo: userRepo, mail: mail, bcryptCost: bcrypt.DefaultCost}
}

// Register creates an unverified account and mails its verification key.
// Mail failures are logged; the account is still created.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	key := uuid.NewString()

	user := &models.User{
		Email:           in.Email,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Password:        string(hash),
		IsActive:        true,
		VerificationKey: &key,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(err, "User with this email already exists")
	}

	if s.mail != nil {
		if err := s.mail.SendVerification(ctx, user.Email, user.FirstName, key); err != nil {
			middleware.Logger.WarnContext(ctx, "verification mail failed",
				slog.Uint64("user_id", uint64(user.ID)), slog.String("error", err.Error()))
		}
	}
	return user, nil
}

func (s *UserService) Verify(ctx context.Context, key string) (*models.User, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, models.NewValidationError("key is required")
	}
	user, err := s.userRepo.GetByVerificationKey(ctx, key)
	if err != nil {
		return nil, storeError(err, "")
	}
	if err := s.userRepo.MarkVerified(ctx, user); err != nil {
		return nil, storeError(err, "")
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "")
	}
	return user, nil
}
