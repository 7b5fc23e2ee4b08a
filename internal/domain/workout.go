package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutStatus describes where a workout is in its lifecycle.
type WorkoutStatus string

const (
	StatusPending   WorkoutStatus = "pending"
	StatusActive    WorkoutStatus = "active"
	StatusCompleted WorkoutStatus = "completed" // Terminal
)

// Workout is a single scheduled training session owned by one user.
// Progress is always derived from the exercises via RecomputeProgress;
// it is never set independently.
type Workout struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Date      time.Time          `bson:"date" json:"date"`
	Status    WorkoutStatus      `bson:"status" json:"status"`
	Progress  float64            `bson:"progress" json:"progress"` // 0-100
	Exercises []Exercise         `bson:"exercises" json:"exercises"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Exercise is embedded in a Workout, not a standalone document.
// CompletedSets never decreases and never exceeds Sets.
type Exercise struct {
	ID            string  `bson:"id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	Sets          int     `bson:"sets" json:"sets"`
	Reps          int     `bson:"reps" json:"reps"`
	Weight        float64 `bson:"weight" json:"weight"`
	RestTime      int     `bson:"restTime" json:"restTime"` // seconds
	Completed     bool    `bson:"completed" json:"completed"`
	CompletedSets int     `bson:"completedSets" json:"completedSets"`
	Image         string  `bson:"image,omitempty" json:"image,omitempty"`
}

// Volume is the training-load metric for one exercise: sets * reps * weight.
func (e Exercise) Volume() float64 {
	return float64(e.Sets) * float64(e.Reps) * e.Weight
}

// RecomputeProgress returns the completion percentage implied by the
// current exercise states: 100 * completed / total.
func (w *Workout) RecomputeProgress() float64 {
	if len(w.Exercises) == 0 {
		return 0
	}
	completed := 0
	for _, ex := range w.Exercises {
		if ex.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(w.Exercises)) * 100
}

// ExerciseByID returns the index of the exercise with the given id, or -1.
func (w *Workout) ExerciseByID(exerciseID string) int {
	for i, ex := range w.Exercises {
		if ex.ID == exerciseID {
			return i
		}
	}
	return -1
}
