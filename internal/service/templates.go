package service

import (
	"alcyxob/fitness-tracker/internal/domain"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// exerciseTemplate is one line of a workout template. Templates expand
// into embedded Exercise values with zeroed completion state.
type exerciseTemplate struct {
	Name     string
	Sets     int
	Reps     int
	Weight   float64
	RestTime int
	Image    string
}

type workoutTemplate struct {
	Name      string
	Exercises []exerciseTemplate
}

const templateImage = "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=80&h=80&fit=crop"

// workoutTemplates is the fixed catalog seeded for every new user, in
// schedule order: the first expands to the active workout, the rest to
// pending ones on the following days.
var workoutTemplates = []workoutTemplate{
	{
		Name: "Peito e Tríceps",
		Exercises: []exerciseTemplate{
			{Name: "Supino Reto", Sets: 4, Reps: 10, Weight: 80, RestTime: 90, Image: templateImage},
			{Name: "Supino Inclinado", Sets: 4, Reps: 8, Weight: 70, RestTime: 90, Image: templateImage},
			{Name: "Crucifixo", Sets: 3, Reps: 12, Weight: 25, RestTime: 60, Image: templateImage},
			{Name: "Tríceps Testa", Sets: 4, Reps: 12, Weight: 30, RestTime: 60, Image: templateImage},
		},
	},
	{
		Name: "Costas e Bíceps",
		Exercises: []exerciseTemplate{
			{Name: "Puxada Frontal", Sets: 4, Reps: 10, Weight: 65, RestTime: 90, Image: templateImage},
			{Name: "Remada Baixa", Sets: 4, Reps: 10, Weight: 60, RestTime: 90, Image: templateImage},
			{Name: "Rosca Direta", Sets: 3, Reps: 12, Weight: 20, RestTime: 60, Image: templateImage},
		},
	},
}

// expandTemplates materializes the catalog into workout documents for one
// user: one workout per template, dated now + template index in days, the
// first active and the rest pending.
func expandTemplates(userID primitive.ObjectID, now time.Time) []domain.Workout {
	workouts := make([]domain.Workout, 0, len(workoutTemplates))
	for i, tmpl := range workoutTemplates {
		status := domain.StatusPending
		if i == 0 {
			status = domain.StatusActive
		}

		exercises := make([]domain.Exercise, 0, len(tmpl.Exercises))
		for j, ex := range tmpl.Exercises {
			exercises = append(exercises, domain.Exercise{
				ID:            fmt.Sprintf("ex_%d", j),
				Name:          ex.Name,
				Sets:          ex.Sets,
				Reps:          ex.Reps,
				Weight:        ex.Weight,
				RestTime:      ex.RestTime,
				Completed:     false,
				CompletedSets: 0,
				Image:         ex.Image,
			})
		}

		workouts = append(workouts, domain.Workout{
			UserID:    userID,
			Name:      tmpl.Name,
			Date:      now.AddDate(0, 0, i),
			Status:    status,
			Progress:  0,
			Exercises: exercises,
		})
	}
	return workouts
}
