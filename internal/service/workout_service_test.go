package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestWorkoutService(workoutRepo *fakeWorkoutRepo, userRepo *fakeUserRepo) *workoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
		now:         func() time.Time { return time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC) },
	}
}

func createTestUser(t *testing.T, userRepo *fakeUserRepo) primitive.ObjectID {
	t.Helper()
	id, err := userRepo.Create(context.Background(), &domain.User{
		Name:         "Carlos",
		Email:        "carlos@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}

func TestListWorkouts_SeedsCatalogOnce(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := createTestUser(t, userRepo)

	first, err := svc.ListWorkouts(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, first, len(workoutTemplates))

	// First template is active, the rest pending, all at zero progress.
	assert.Equal(t, "Peito e Tríceps", first[0].Name)
	assert.Equal(t, domain.StatusActive, first[0].Status)
	assert.Equal(t, "Costas e Bíceps", first[1].Name)
	assert.Equal(t, domain.StatusPending, first[1].Status)
	for _, w := range first {
		assert.Zero(t, w.Progress)
		for _, ex := range w.Exercises {
			assert.False(t, ex.Completed)
			assert.Zero(t, ex.CompletedSets)
		}
	}

	// Dates are spaced one day apart starting now.
	assert.Equal(t, 24*time.Hour, first[1].Date.Sub(first[0].Date))

	// A second call must not duplicate anything.
	second, err := svc.ListWorkouts(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, second, len(workoutTemplates))
}

func TestTodayWorkout_ReturnsActive(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := createTestUser(t, userRepo)

	workout, err := svc.TodayWorkout(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, workout.Status)
	assert.Equal(t, "Peito e Tríceps", workout.Name)
}

func TestTodayWorkout_PromotesEarliestPending(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := primitive.NewObjectID()

	now := time.Now().UTC()
	require.NoError(t, workoutRepo.CreateMany(context.Background(), []domain.Workout{
		{UserID: userID, Name: "Later", Date: now.AddDate(0, 0, 2), Status: domain.StatusPending, Exercises: []domain.Exercise{{ID: "ex_0", Sets: 1, Reps: 1}}},
		{UserID: userID, Name: "Sooner", Date: now.AddDate(0, 0, 1), Status: domain.StatusPending, Exercises: []domain.Exercise{{ID: "ex_0", Sets: 1, Reps: 1}}},
	}))

	workout, err := svc.TodayWorkout(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Sooner", workout.Name)
	assert.Equal(t, domain.StatusActive, workout.Status)

	stored, err := workoutRepo.GetByIDForUser(context.Background(), workout.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, stored.Status)
}

func TestTodayWorkout_NoneAvailable(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := primitive.NewObjectID()

	// All workouts already completed; nothing to promote.
	require.NoError(t, workoutRepo.CreateMany(context.Background(), []domain.Workout{
		{UserID: userID, Name: "Done", Date: time.Now().UTC(), Status: domain.StatusCompleted, Progress: 100, Exercises: []domain.Exercise{{ID: "ex_0", Sets: 1, Reps: 1, Completed: true, CompletedSets: 1}}},
	}))

	_, err := svc.TodayWorkout(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNoWorkoutToday)
}

func TestCompleteSet_ClampsAtTotalSets(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := createTestUser(t, userRepo)

	workouts, err := svc.ListWorkouts(context.Background(), userID)
	require.NoError(t, err)
	workout := workouts[0]
	exercise := workout.Exercises[0] // 4 sets

	// Call complete-set more times than there are sets.
	var result *CompleteSetResult
	for i := 0; i < exercise.Sets+3; i++ {
		result, err = svc.CompleteSet(context.Background(), userID, workout.ID, exercise.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, exercise.Sets, result.CompletedSets)
	assert.Equal(t, exercise.Sets, result.TotalSets)

	stored, err := workoutRepo.GetByIDForUser(context.Background(), workout.ID, userID)
	require.NoError(t, err)
	assert.True(t, stored.Exercises[0].Completed)
	assert.Equal(t, exercise.Sets, stored.Exercises[0].CompletedSets)
}

func TestCompleteSet_ProgressAndCompletion(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := createTestUser(t, userRepo)

	workouts, err := svc.ListWorkouts(context.Background(), userID)
	require.NoError(t, err)
	workout := workouts[0]
	total := len(workout.Exercises)

	// Finish every exercise in order, checking progress along the way.
	for i, ex := range workout.Exercises {
		for s := 0; s < ex.Sets; s++ {
			_, err := svc.CompleteSet(context.Background(), userID, workout.ID, ex.ID)
			require.NoError(t, err)
		}

		stored, err := workoutRepo.GetByIDForUser(context.Background(), workout.ID, userID)
		require.NoError(t, err)
		wantProgress := float64(i+1) / float64(total) * 100
		assert.InDelta(t, wantProgress, stored.Progress, 1e-9)
	}

	stored, err := workoutRepo.GetByIDForUser(context.Background(), workout.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, 100.0, stored.Progress)

	// The owning user's counters moved exactly once.
	user, err := userRepo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, user.TotalWorkouts)
	assert.Equal(t, 1, user.Streak)

	// Further calls are clamped no-ops and never double count.
	_, err = svc.CompleteSet(context.Background(), userID, workout.ID, workout.Exercises[0].ID)
	require.NoError(t, err)
	user, err = userRepo.GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, user.TotalWorkouts)
	assert.Equal(t, 1, user.Streak)
}

func TestCompleteSet_RetriesAfterLostRace(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := createTestUser(t, userRepo)

	workouts, err := svc.ListWorkouts(context.Background(), userID)
	require.NoError(t, err)
	workout := workouts[0]

	workoutRepo.forcedConflicts = 1
	result, err := svc.CompleteSet(context.Background(), userID, workout.ID, workout.Exercises[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CompletedSets)
}

func TestCompleteSet_ContentionExhaustsRetries(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := createTestUser(t, userRepo)

	workouts, err := svc.ListWorkouts(context.Background(), userID)
	require.NoError(t, err)
	workout := workouts[0]

	workoutRepo.forcedConflicts = completeSetMaxRetries
	_, err = svc.CompleteSet(context.Background(), userID, workout.ID, workout.Exercises[0].ID)
	assert.ErrorIs(t, err, ErrCompleteSetContention)
}

func TestCompleteSet_WorkoutNotFound(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := createTestUser(t, userRepo)

	_, err := svc.CompleteSet(context.Background(), userID, primitive.NewObjectID(), "ex_0")
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestCompleteSet_ExerciseNotFound(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := createTestUser(t, userRepo)

	workouts, err := svc.ListWorkouts(context.Background(), userID)
	require.NoError(t, err)

	_, err = svc.CompleteSet(context.Background(), userID, workouts[0].ID, "ex_99")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestCompleteSet_ForeignWorkoutHidden(t *testing.T) {
	userRepo := newFakeUserRepo()
	workoutRepo := newFakeWorkoutRepo()
	svc := newTestWorkoutService(workoutRepo, userRepo)
	userID := createTestUser(t, userRepo)

	workouts, err := svc.ListWorkouts(context.Background(), userID)
	require.NoError(t, err)

	// Another user must not be able to address this workout.
	_, err = svc.CompleteSet(context.Background(), primitive.NewObjectID(), workouts[0].ID, "ex_0")
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}
