package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"alcyxob/fitness-tracker/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidAvatarType = errors.New("avatar content type must be an image")
	ErrAvatarKeyMismatch = errors.New("object key does not belong to this user")
	ErrUploadURLError    = errors.New("failed to generate upload URL")
	ErrDownloadURLError  = errors.New("failed to generate download URL")
)

// AvatarUploadResponse carries the presigned upload URL and the object
// key the client must report back on confirmation.
type AvatarUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// UserService exposes profile reads and the avatar upload flow.
type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	// RequestAvatarUploadURL generates a presigned PUT URL for uploading
	// a new avatar image directly to object storage.
	RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUploadResponse, error)
	// ConfirmAvatar records an uploaded object as the user's avatar and
	// returns the new avatar URL.
	ConfirmAvatar(ctx context.Context, userID primitive.ObjectID, objectKey string) (string, error)
}

// userService implements the UserService interface.
type userService struct {
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, fileStorage storage.FileStorage) UserService {
	return &userService{
		userRepo:    userRepo,
		fileStorage: fileStorage,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUploadResponse, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidAvatarType
	}

	fileExtension := strings.TrimPrefix(strings.ToLower(contentType), "image/")
	objectKey := path.Join(avatarKeyPrefix(userID), fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &AvatarUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

func (s *userService) ConfirmAvatar(ctx context.Context, userID primitive.ObjectID, objectKey string) (string, error) {
	if objectKey == "" {
		return "", errors.New("object key is required")
	}
	// Keys are namespaced per user; accepting a foreign key would let one
	// account point its avatar at another's upload.
	if !strings.HasPrefix(objectKey, avatarKeyPrefix(userID)+"/") {
		return "", ErrAvatarKeyMismatch
	}

	avatarURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.AvatarURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	return avatarURL, nil
}

func avatarKeyPrefix(userID primitive.ObjectID) string {
	return path.Join("avatars", userID.Hex())
}
