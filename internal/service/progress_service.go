package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUserNotFound = errors.New("user not found")

// The weekly chart always shows this many entries.
const weeklyWindowWeeks = 7

// WeeklyProgress is one week's bucket in the progress chart.
// Volume sums sets*reps*weight over completed exercises; Weight is the
// average raw weight over the same exercises.
type WeeklyProgress struct {
	Week     string  `json:"week"`
	Volume   float64 `json:"volume"`
	Weight   float64 `json:"weight"`
	Workouts int     `json:"workouts"`
}

// ProgressStats aggregates the user's entire completed history.
type ProgressStats struct {
	TotalVolume       float64 `json:"totalVolume"`
	AvgWeight         float64 `json:"avgWeight"`
	CompletedWorkouts int     `json:"completedWorkouts"`
	CurrentStreak     int     `json:"currentStreak"`
}

// ProgressService computes time-bucketed and aggregate training statistics
// from completed workouts.
type ProgressService interface {
	// Weekly returns exactly seven chronological buckets covering the
	// trailing seven weeks, padded with placeholder data for users with
	// little history.
	Weekly(ctx context.Context, userID primitive.ObjectID) ([]WeeklyProgress, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (*ProgressStats, error)
}

// progressService implements the ProgressService interface.
type progressService struct {
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(workoutRepo repository.WorkoutRepository, userRepo repository.UserRepository) ProgressService {
	return &progressService{
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *progressService) Weekly(ctx context.Context, userID primitive.ObjectID) ([]WeeklyProgress, error) {
	until := s.now()
	since := until.AddDate(0, 0, -7*weeklyWindowWeeks)
	workouts, err := s.workoutRepo.ListCompleted(ctx, userID, &since, &until)
	if err != nil {
		return nil, err
	}
	return buildWeeklyProgress(workouts), nil
}

func (s *progressService) Stats(ctx context.Context, userID primitive.ObjectID) (*ProgressStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	workouts, err := s.workoutRepo.ListCompleted(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	stats := computeStats(workouts)
	stats.CurrentStreak = user.Streak
	return &stats, nil
}

// --- Aggregation ---

// weekBucket accumulates one ISO week's worth of completed workouts.
type weekBucket struct {
	start         time.Time
	volume        float64
	weightSum     float64
	exerciseCount int
	workouts      int
}

// weekStart truncates a timestamp to the Monday (00:00 UTC) of its ISO week.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// buildWeeklyProgress buckets completed workouts into calendar weeks,
// orders them chronologically and pads the result with deterministic
// placeholder weeks until exactly seven entries exist. Labels are
// positional ("Sem 1" ... "Sem 7"), not calendar week numbers.
func buildWeeklyProgress(workouts []domain.Workout) []WeeklyProgress {
	buckets := make(map[time.Time]*weekBucket)
	for _, w := range workouts {
		start := weekStart(w.Date)
		b, ok := buckets[start]
		if !ok {
			b = &weekBucket{start: start}
			buckets[start] = b
		}
		for _, ex := range w.Exercises {
			if !ex.Completed {
				continue
			}
			b.volume += ex.Volume()
			b.weightSum += ex.Weight
			b.exerciseCount++
		}
		b.workouts++
	}

	ordered := make([]*weekBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].start.Before(ordered[j].start)
	})

	// The trailing window can straddle one extra week boundary; keep only
	// the most recent seven real buckets.
	if len(ordered) > weeklyWindowWeeks {
		ordered = ordered[len(ordered)-weeklyWindowWeeks:]
	}

	result := make([]WeeklyProgress, 0, weeklyWindowWeeks)
	for i, b := range ordered {
		avgWeight := 0.0
		if b.exerciseCount > 0 {
			avgWeight = b.weightSum / float64(b.exerciseCount)
		}
		result = append(result, WeeklyProgress{
			Week:     fmt.Sprintf("Sem %d", i+1),
			Volume:   b.volume,
			Weight:   avgWeight,
			Workouts: b.workouts,
		})
	}

	// Cold-start filler: users with short histories still get a full
	// chart. The constants are placeholder demo data, kept verbatim for
	// client compatibility, not a projection.
	for len(result) < weeklyWindowWeeks {
		w := len(result) + 1
		result = append(result, WeeklyProgress{
			Week:     fmt.Sprintf("Sem %d", w),
			Volume:   float64(2500 + w*300 + w*50),
			Weight:   float64(320 + w*15),
			Workouts: 3 + w%2,
		})
	}

	return result
}

// computeStats runs the same per-exercise formula as the weekly chart
// over the entire completed history, with no time window.
func computeStats(workouts []domain.Workout) ProgressStats {
	var stats ProgressStats
	var weightSum float64
	var exerciseCount int

	for _, w := range workouts {
		for _, ex := range w.Exercises {
			if !ex.Completed {
				continue
			}
			stats.TotalVolume += ex.Volume()
			weightSum += ex.Weight
			exerciseCount++
		}
	}

	if exerciseCount > 0 {
		stats.AvgWeight = weightSum / float64(exerciseCount)
	}
	stats.CompletedWorkouts = len(workouts)
	return stats
}
