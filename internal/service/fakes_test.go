package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory repository.UserRepository for tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	stored := *user
	r.users[user.ID] = &stored
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) IncrementWorkoutStats(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.TotalWorkouts++
	u.Streak++
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Avatar = avatarURL
	return nil
}

// fakeWorkoutRepo is an in-memory repository.WorkoutRepository mirroring
// the conditional-update semantics of the Mongo implementation.
type fakeWorkoutRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]*domain.Workout

	// When > 0, the next ApplySetCompletion calls fail with ErrConflict,
	// simulating a lost compare-and-set race.
	forcedConflicts int
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout)}
}

func copyWorkout(w *domain.Workout) *domain.Workout {
	copied := *w
	copied.Exercises = make([]domain.Exercise, len(w.Exercises))
	copy(copied.Exercises, w.Exercises)
	return &copied
}

func (r *fakeWorkoutRepo) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, w := range r.workouts {
		if w.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeWorkoutRepo) CreateMany(ctx context.Context, workouts []domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for i := range workouts {
		workouts[i].ID = primitive.NewObjectID()
		workouts[i].CreatedAt = now
		r.workouts[workouts[i].ID] = copyWorkout(&workouts[i])
	}
	return nil
}

func (r *fakeWorkoutRepo) sortedByDate(userID primitive.ObjectID, status *domain.WorkoutStatus) []*domain.Workout {
	var out []*domain.Workout
	for _, w := range r.workouts {
		if w.UserID != userID {
			continue
		}
		if status != nil && w.Status != *status {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *fakeWorkoutRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Workout
	for _, w := range r.sortedByDate(userID, nil) {
		result = append(result, *copyWorkout(w))
	}
	return result, nil
}

func (r *fakeWorkoutRepo) FindByStatus(ctx context.Context, userID primitive.ObjectID, status domain.WorkoutStatus) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matches := r.sortedByDate(userID, &status)
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	return copyWorkout(matches[0]), nil
}

func (r *fakeWorkoutRepo) GetByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return copyWorkout(w), nil
}

func (r *fakeWorkoutRepo) MarkActive(ctx context.Context, id, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != userID || w.Status != domain.StatusPending {
		return repository.ErrNotFound
	}
	w.Status = domain.StatusActive
	return nil
}

func (r *fakeWorkoutRepo) ApplySetCompletion(ctx context.Context, id, userID primitive.ObjectID, exercise domain.Exercise, prevCompletedSets int, progress float64, status domain.WorkoutStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedConflicts > 0 {
		r.forcedConflicts--
		return repository.ErrConflict
	}
	w, ok := r.workouts[id]
	if !ok || w.UserID != userID {
		return repository.ErrConflict
	}
	idx := w.ExerciseByID(exercise.ID)
	if idx < 0 || w.Exercises[idx].CompletedSets != prevCompletedSets {
		return repository.ErrConflict
	}
	w.Exercises[idx].CompletedSets = exercise.CompletedSets
	w.Exercises[idx].Completed = exercise.Completed
	w.Progress = progress
	w.Status = status
	return nil
}

func (r *fakeWorkoutRepo) ListCompleted(ctx context.Context, userID primitive.ObjectID, since, until *time.Time) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := domain.StatusCompleted
	var result []domain.Workout
	for _, w := range r.sortedByDate(userID, &status) {
		if since != nil && w.Date.Before(*since) {
			continue
		}
		if until != nil && w.Date.After(*until) {
			continue
		}
		result = append(result, *copyWorkout(w))
	}
	return result, nil
}

// fakeFileStorage is an in-memory storage.FileStorage for tests.
type fakeFileStorage struct {
	deleted []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/upload/%s", objectKey), nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/download/%s", objectKey), nil
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}
