package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mindaid-app/mindaid-api/internal/model"
	"github.com/mindaid-app/mindaid-api/internal/repository"
	"github.com/mindaid-app/mindaid-api/shared/auth"
	"github.com/mindaid-app/mindaid-api/shared/security"
)

// AuthUsecase defines the business logic for registration, email
// verification, login, profile updates, and password reset.
type AuthUsecase interface {
	// Register creates (or refreshes) an unverified account and emails a
	// one-time verification code. No token is issued until the code is
	// confirmed.
	Register(ctx context.Context, params RegisterParams) error

	// VerifyEmail confirms the one-time code, marks the account verified,
	// and returns the user with a freshly minted access token.
	VerifyEmail(ctx context.Context, email, otp string) (*model.User, string, error)

	Login(ctx context.Context, params LoginParams) (*model.User, string, error)
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, string, error)

	// ForgotPassword mails a reset link carrying a single-use token; only
	// a SHA-256 digest of the token is stored.
	ForgotPassword(ctx context.Context, email string) error

	ResetPassword(ctx context.Context, token, newPassword string) error
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// UpdateProfileParams defines the optional profile fields to change. A
// password change requires the current password for re-verification.
type UpdateProfileParams struct {
	Name        *string
	Email       *string
	NewPassword *string
	OldPassword *string
}

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrMissingOldPassword = errors.New("current password is required to change it")
	ErrWrongOldPassword   = errors.New("invalid current password")
	ErrEmailSendFailed    = errors.New("email could not be sent")
)

const (
	otpTTL        = 10 * time.Minute
	resetTokenTTL = 10 * time.Minute
)

type authUsecase struct {
	userRepo       repository.UserRepository
	jwtAuth        auth.JWTAuthenticator
	mailer         EmailSender
	tokenExpiresIn time.Duration
	resetURL       string
	now            func() time.Time
}

// NewAuthUsecase creates a new instance of AuthUsecase. resetURL is the
// frontend page that reset links point at.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer EmailSender,
	tokenExpiresIn time.Duration,
	resetURL string,
) AuthUsecase {
	return &authUsecase{
		userRepo:       userRepo,
		jwtAuth:        jwtAuth,
		mailer:         mailer,
		tokenExpiresIn: tokenExpiresIn,
		resetURL:       resetURL,
		now:            time.Now,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) error {
	existing, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	if existing != nil && existing.Verified {
		return ErrUserAlreadyExists
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	otpExpiresAt := u.now().Add(otpTTL)

	var user *model.User
	if existing == nil {
		user, err = u.userRepo.CreateUser(ctx, &model.User{
			Name:         params.Name,
			Email:        params.Email,
			PasswordHash: passwordHash,
			OTP:          otp,
			OTPExpiresAt: otpExpiresAt,
		})
	} else {
		// An unverified account is overwritten so the registration can be
		// retried with new details.
		user, err = u.userRepo.UpdateUser(ctx, existing.ID.Hex(), repository.UpdateUserParams{
			Name:         &params.Name,
			PasswordHash: &passwordHash,
			OTP:          &otp,
			OTPExpiresAt: &otpExpiresAt,
		})
	}
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Your verification code for MindAid is: \n\n %s \n\nThis code expires in 10 minutes.",
		otp,
	)
	if err := u.mailer.SendSimple([]string{user.Email}, "MindAid Email Verification", body); err != nil {
		// Drop the unverified account so the registration can be retried.
		if _, deleteErr := u.userRepo.DeleteUser(ctx, user.ID.Hex()); deleteErr != nil {
			return deleteErr
		}
		return ErrEmailSendFailed
	}

	return nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, email, otp string) (*model.User, string, error) {
	user, err := u.userRepo.GetUserByEmailAndOTP(ctx, email, otp, u.now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrInvalidOTP
		}
		return nil, "", err
	}

	verified := true
	user, err = u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		Verified: &verified,
		ClearOTP: true,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := u.jwtAuth.GenerateToken(user.ID.Hex(), u.tokenExpiresIn)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*model.User, string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, "", err
	} else if !ok {
		return nil, "", ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, "", ErrEmailNotVerified
	}

	token, err := u.jwtAuth.GenerateToken(user.ID.Hex(), u.tokenExpiresIn)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (u *authUsecase) UpdateProfile(
	ctx context.Context,
	userID string,
	params UpdateProfileParams,
) (*model.User, string, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	updateParams := repository.UpdateUserParams{
		Name:  params.Name,
		Email: params.Email,
	}

	if params.NewPassword != nil {
		if params.OldPassword == nil {
			return nil, "", ErrMissingOldPassword
		}

		if ok, err := security.VerifyPassword(*params.OldPassword, user.PasswordHash); err != nil {
			return nil, "", err
		} else if !ok {
			return nil, "", ErrWrongOldPassword
		}

		passwordHash, err := security.HashPassword(*params.NewPassword)
		if err != nil {
			return nil, "", err
		}
		updateParams.PasswordHash = &passwordHash
	}

	updated, err := u.userRepo.UpdateUser(ctx, userID, updateParams)
	if err != nil {
		return nil, "", err
	}

	token, err := u.jwtAuth.GenerateToken(updated.ID.Hex(), u.tokenExpiresIn)
	if err != nil {
		return nil, "", err
	}

	return updated, token, nil
}

func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	tokenHash := hashResetToken(token)
	expiresAt := u.now().Add(resetTokenTTL)

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		ResetTokenHash: &tokenHash,
		ResetExpiresAt: &expiresAt,
	}); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/%s", u.resetURL, token)
	body := fmt.Sprintf(
		"You are receiving this email because you (or someone else) has requested the reset of a password. Please visit: \n\n %s",
		resetLink,
	)
	htmlBody := fmt.Sprintf(`
		<h1>Password Reset</h1>
		<p>Click the link below to reset your password:</p>
		<a href="%s" clicktracking=off>%s</a>
		<p>This link will expire in 10 minutes.</p>
	`, resetLink, resetLink)

	if err := u.mailer.SendHTML([]string{user.Email}, "MindAid Password Reset", body, htmlBody); err != nil {
		// Clear the token so a failed delivery does not leave a live
		// reset credential behind.
		if _, clearErr := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
			ClearResetToken: true,
		}); clearErr != nil {
			return clearErr
		}
		return ErrEmailSendFailed
	}

	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := u.userRepo.GetUserByResetTokenHash(ctx, hashResetToken(token), u.now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidResetToken
		}
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash:    &passwordHash,
		ClearResetToken: true,
	}); err != nil {
		return err
	}

	return nil
}

// generateOTP returns a random 6-digit one-time code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// generateResetToken returns a random token to be mailed to the user.
func generateResetToken() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}

// hashResetToken digests the raw token for at-rest storage and lookup.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
