package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. TotalWorkouts and Streak are
// counters maintained by the workout completion flow; they are only ever
// incremented there, never written directly by handlers.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"` // Unique across users
	PasswordHash  string             `bson:"passwordHash" json:"-"`
	Avatar        string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	TotalWorkouts int                `bson:"totalWorkouts" json:"totalWorkouts"`
	Streak        int                `bson:"streak" json:"streak"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
