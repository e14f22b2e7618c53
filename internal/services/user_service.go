package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/healthmateapp/healthmate-server/internal/config"
	"github.com/healthmateapp/healthmate-server/internal/database"
	"github.com/healthmateapp/healthmate-server/internal/domain"
	apperrors "github.com/healthmateapp/healthmate-server/internal/errors"
	"github.com/healthmateapp/healthmate-server/internal/logger"
)

type UserService struct {
	db    *gorm.DB
	auth  config.AuthConfig
	email *EmailService
}

func NewUserService(db *gorm.DB, auth config.AuthConfig, email *EmailService) *UserService {
	return &UserService{db: db, auth: auth, email: email}
}

// Register creates a user with a bcrypt-hashed password and emails a
// verification link. The email address must be unused.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	var existing database.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.NewConflictError("Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token := uuid.NewString()
	expiry := time.Now().Add(24 * time.Hour)
	user := database.User{
		Email:                        email,
		Name:                         name,
		Password:                     string(hash),
		EmailVerificationToken:       &token,
		EmailVerificationTokenExpiry: &expiry,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.email.Send([]string{email}, "Verify your HealthMate account",
		fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is <b>%s</b>. It expires in 24 hours.</p>", name, token)); err != nil {
		logger.Errorf("Failed to send verification email to %s: %v", email, err)
	}

	return toDomainUser(&user), nil
}

// Authenticate checks credentials and returns a signed JWT plus the
// profile. Wrong email and wrong password are indistinguishable.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, *domain.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, toDomainUser(&user), nil
}

func (s *UserService) issueToken(userID uint) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.auth.TokenTTLHrs) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.auth.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a JWT and returns the user ID it was issued for.
func (s *UserService) ParseToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, apperrors.ErrUnauthorized
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	var userID uint
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return 0, apperrors.ErrUnauthorized
	}
	return userID, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(&user), nil
}

// UpdateProfile applies only the fields the update explicitly carries.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update domain.ProfileUpdate) (*domain.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.AttendantEmails != nil {
		user.AttendantEmails = *update.AttendantEmails
	}
	if update.BPSystolicMin != nil {
		user.BPSystolicMin = update.BPSystolicMin
	}
	if update.BPSystolicMax != nil {
		user.BPSystolicMax = update.BPSystolicMax
	}
	if update.BPDiastolicMin != nil {
		user.BPDiastolicMin = update.BPDiastolicMin
	}
	if update.BPDiastolicMax != nil {
		user.BPDiastolicMax = update.BPDiastolicMax
	}
	if update.SugarFastingMin != nil {
		user.SugarFastingMin = update.SugarFastingMin
	}
	if update.SugarFastingMax != nil {
		user.SugarFastingMax = update.SugarFastingMax
	}
	if update.SugarRandomMin != nil {
		user.SugarRandomMin = update.SugarRandomMin
	}
	if update.SugarRandomMax != nil {
		user.SugarRandomMax = update.SugarRandomMax
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return toDomainUser(&user), nil
}

// ForgotPassword issues a short-lived reset token and emails it. An
// unknown email succeeds silently to avoid account enumeration.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	var user database.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token := uuid.NewString()
	expiry := time.Now().Add(time.Duration(s.auth.ResetTTLMins) * time.Minute)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.email.Send([]string{email}, "HealthMate password reset",
		fmt.Sprintf("<p>Your password reset code is <b>%s</b>. It expires in %d minutes.</p>", token, s.auth.ResetTTLMins)); err != nil {
		logger.Errorf("Failed to send reset email to %s: %v", email, err)
	}
	return nil
}

// ResetPassword consumes a valid reset token and stores the new password.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	var user database.User
	err := s.db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewValidationError("Invalid or expired reset token")
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now()) {
		return apperrors.NewValidationError("Invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hash)
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	var user database.User
	err := s.db.WithContext(ctx).Where("email_verification_token = ?", token).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewValidationError("Invalid or expired verification token")
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.EmailVerificationTokenExpiry == nil || user.EmailVerificationTokenExpiry.Before(time.Now()) {
		return apperrors.NewValidationError("Invalid or expired verification token")
	}

	user.EmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationTokenExpiry = nil
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListUserIDs returns the IDs of all registered users, for scheduled jobs.
func (s *UserService) ListUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&database.User{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ids, nil
}

func toDomainUser(u *database.User) *domain.User {
	return &domain.User{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		AttendantEmails: u.AttendantEmails,
		EmailVerified:   u.EmailVerified,
		CreatedAt:       u.CreatedAt,
		Thresholds: domain.Thresholds{
			BPSystolicMin:   u.BPSystolicMin,
			BPSystolicMax:   u.BPSystolicMax,
			BPDiastolicMin:  u.BPDiastolicMin,
			BPDiastolicMax:  u.BPDiastolicMax,
			SugarFastingMin: u.SugarFastingMin,
			SugarFastingMax: u.SugarFastingMax,
			SugarRandomMin:  u.SugarRandomMin,
			SugarRandomMax:  u.SugarRandomMax,
		},
	}
}
