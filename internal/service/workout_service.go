package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound       = errors.New("workout not found")
	ErrExerciseNotFound      = errors.New("exercise not found in workout")
	ErrNoWorkoutToday        = errors.New("no workout available for today")
	ErrCompleteSetContention = errors.New("complete set retries exhausted")
)

// How many times a set-completion write is retried after losing a
// compare-and-set race before giving up.
const completeSetMaxRetries = 3

// CompleteSetResult reports the state of the exercise after one
// complete-set call.
type CompleteSetResult struct {
	ExerciseID    string `json:"id"`
	CompletedSets int    `json:"completedSets"`
	TotalSets     int    `json:"totalSets"`
}

// WorkoutService owns the workout catalog seeding and the
// pending/active/completed lifecycle.
type WorkoutService interface {
	// ListWorkouts returns all of the user's workouts ordered by date,
	// seeding the catalog first when the user has none.
	ListWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error)
	// TodayWorkout returns the active workout, promoting the
	// earliest-dated pending one when no active workout exists.
	TodayWorkout(ctx context.Context, userID primitive.ObjectID) (*domain.Workout, error)
	// CompleteSet records one finished set for an exercise.
	CompleteSet(ctx context.Context, userID, workoutID primitive.ObjectID, exerciseID string) (*CompleteSetResult, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, userRepo repository.UserRepository) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// seedIfEmpty populates a new user's workout list from the fixed
// templates. Idempotent: a user with any existing workout is left alone.
func (s *workoutService) seedIfEmpty(ctx context.Context, userID primitive.ObjectID) error {
	count, err := s.workoutRepo.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.workoutRepo.CreateMany(ctx, expandTemplates(userID, s.now()))
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	if err := s.seedIfEmpty(ctx, userID); err != nil {
		return nil, err
	}
	return s.workoutRepo.ListByUser(ctx, userID)
}

func (s *workoutService) TodayWorkout(ctx context.Context, userID primitive.ObjectID) (*domain.Workout, error) {
	if err := s.seedIfEmpty(ctx, userID); err != nil {
		return nil, err
	}

	workout, err := s.workoutRepo.FindByStatus(ctx, userID, domain.StatusActive)
	if err == nil {
		return workout, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// No active workout: promote the earliest-dated pending one.
	workout, err = s.workoutRepo.FindByStatus(ctx, userID, domain.StatusPending)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoWorkoutToday
		}
		return nil, err
	}

	if err := s.workoutRepo.MarkActive(ctx, workout.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost a race with another request; report exhaustion rather
			// than guessing at the other writer's outcome.
			return nil, ErrNoWorkoutToday
		}
		return nil, err
	}
	workout.Status = domain.StatusActive
	return workout, nil
}

// CompleteSet increments the exercise's completedSets by one, clamped to
// its set count, recomputes the workout progress and, when progress first
// reaches 100, transitions the workout to completed and bumps the owning
// user's totalWorkouts and streak counters exactly once.
//
// The write is a compare-and-set against the exercise's previous
// completedSets value; losing the race re-reads and retries, so two
// concurrent calls for the same exercise never collapse into one.
func (s *workoutService) CompleteSet(ctx context.Context, userID, workoutID primitive.ObjectID, exerciseID string) (*CompleteSetResult, error) {
	for attempt := 0; attempt < completeSetMaxRetries; attempt++ {
		workout, err := s.workoutRepo.GetByIDForUser(ctx, workoutID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrWorkoutNotFound
			}
			return nil, err
		}

		idx := workout.ExerciseByID(exerciseID)
		if idx < 0 {
			return nil, ErrExerciseNotFound
		}

		exercise := workout.Exercises[idx]
		prevSets := exercise.CompletedSets

		if prevSets >= exercise.Sets {
			// Already fully done: clamp means nothing changes and the
			// completed transition has already fired. Report current state.
			return &CompleteSetResult{
				ExerciseID:    exercise.ID,
				CompletedSets: exercise.CompletedSets,
				TotalSets:     exercise.Sets,
			}, nil
		}

		exercise.CompletedSets++
		if exercise.CompletedSets == exercise.Sets {
			exercise.Completed = true
		}
		workout.Exercises[idx] = exercise

		progress := workout.RecomputeProgress()
		status := workout.Status
		completedNow := false
		if progress == 100 && workout.Status != domain.StatusCompleted {
			status = domain.StatusCompleted
			completedNow = true
		}

		err = s.workoutRepo.ApplySetCompletion(ctx, workoutID, userID, exercise, prevSets, progress, status)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				continue // Re-read and retry.
			}
			return nil, err
		}

		if completedNow {
			// Only the write that performed the active -> completed
			// transition reaches this point, so the counters move once
			// per workout.
			if err := s.userRepo.IncrementWorkoutStats(ctx, userID); err != nil {
				return nil, err
			}
		}

		return &CompleteSetResult{
			ExerciseID:    exercise.ID,
			CompletedSets: exercise.CompletedSets,
			TotalSets:     exercise.Sets,
		}, nil
	}

	return nil, ErrCompleteSetContention
}
