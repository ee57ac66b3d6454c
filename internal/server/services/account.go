package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/server/auth"
	"github.com/ccsafarmai/farmai/internal/server/config"
	"github.com/ccsafarmai/farmai/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// uploadURLValidity is how long a presigned avatar upload stays usable.
const uploadURLValidity = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UpdateProfileInput struct {
	Name string `json:"name" validate:"required,min=2"`
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required,min=1"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type UpdateImageInput struct {
	ImageURL string `json:"imageUrl" validate:"required"`
}

type UploadURLInput struct {
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp image/gif"`
}

// UploadURL is a presigned PUT for an avatar. ImageURL is where the object
// will be served from once uploaded, empty when no public URL is configured.
type UploadURL struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	ImageURL string `json:"imageUrl"`
}

// AccountService implements the signed-in user's own account operations.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{db: db, repomanager: m, config: cfg}
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	return s.repomanager.Users(s.db).UpdateName(ctx, userID, in.Name)
}

// UpdatePassword replaces the password after checking the current one.
// Accounts without a password report common.ErrorNotFound.
func (s *AccountService) UpdatePassword(ctx context.Context, userID string, in UpdatePasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return common.ErrorNotFound
	}
	if !auth.CheckPassword(user.PasswordHash, in.CurrentPassword) {
		return common.ErrorInvalidCredentials
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	return repo.UpdatePassword(ctx, userID, hash)
}

func (s *AccountService) UpdateProfileImage(ctx context.Context, userID string, in UpdateImageInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	return s.repomanager.Users(s.db).UpdateImage(ctx, userID, in.ImageURL)
}

// AddFundsToWallet credits amount and returns the new balance. Nothing is
// written for a non-positive amount.
func (s *AccountService) AddFundsToWallet(ctx context.Context, userID string, amount float64) (float64, error) {
	if !(amount > 0) {
		return 0, common.ErrorAmountNotPositive
	}
	balance, err := s.repomanager.Users(s.db).AddToWallet(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("error adding funds: %w", err)
	}
	return balance, nil
}

func avatarKey(userID, contentType string) string {
	return fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), imageExtensions[contentType])
}

func (s *AccountService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// PresignProfileImageUpload returns a presigned PUT URL for a new avatar.
// The client uploads directly and then calls UpdateProfileImage.
func (s *AccountService) PresignProfileImageUpload(ctx context.Context, userID string, in UploadURLInput) (*UploadURL, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := avatarKey(userID, in.ContentType)
	contentType := in.ContentType

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(uploadURLValidity))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	out := &UploadURL{URL: req.URL, Key: key}
	if s.config.S3PublicURL != "" {
		out.ImageURL = strings.TrimRight(s.config.S3PublicURL, "/") + "/" + key
	}
	return out, nil
}
