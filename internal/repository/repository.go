package repository

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrConflict     = RepositoryError("concurrent modification")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors from driver errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user documents.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// IncrementWorkoutStats bumps totalWorkouts and streak by one each,
	// atomically on the server side.
	IncrementWorkoutStats(ctx context.Context, id primitive.ObjectID) error
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error
}

// WorkoutRepository defines the interface for interacting with workout documents.
type WorkoutRepository interface {
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CreateMany(ctx context.Context, workouts []domain.Workout) error
	// ListByUser returns all of a user's workouts ordered by date ascending.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error)
	// FindByStatus returns the earliest-dated workout of the user in the
	// given status, or ErrNotFound.
	FindByStatus(ctx context.Context, userID primitive.ObjectID, status domain.WorkoutStatus) (*domain.Workout, error)
	GetByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error)
	// MarkActive flips a pending workout to active. ErrNotFound if the
	// workout is gone or no longer pending.
	MarkActive(ctx context.Context, id, userID primitive.ObjectID) error
	// ApplySetCompletion writes the new exercise state, progress and status
	// for one workout, guarded by a compare-and-set on the exercise's
	// previous completedSets value. Returns ErrConflict when a concurrent
	// writer got there first so the caller can re-read and retry.
	ApplySetCompletion(ctx context.Context, id, userID primitive.ObjectID, exercise domain.Exercise, prevCompletedSets int, progress float64, status domain.WorkoutStatus) error
	// ListCompleted returns completed workouts for a user, optionally
	// restricted to dates at or after since and at or before until. Either
	// bound may be nil.
	ListCompleted(ctx context.Context, userID primitive.ObjectID, since, until *time.Time) ([]domain.Workout, error)
}
