package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository using MongoDB.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new workout repository backed by the
// given connected database.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// CountByUser returns the number of workout documents owned by the user.
func (r *mongoWorkoutRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}

// CreateMany inserts a batch of workouts, assigning fresh ObjectIDs.
func (r *mongoWorkoutRepository) CreateMany(ctx context.Context, workouts []domain.Workout) error {
	if len(workouts) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(workouts))
	for i := range workouts {
		workouts[i].ID = primitive.NewObjectID()
		workouts[i].CreatedAt = now
		docs[i] = workouts[i]
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// ListByUser returns all of a user's workouts ordered by date ascending.
func (r *mongoWorkoutRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// FindByStatus returns the earliest-dated workout of the user in the given
// status, or repository.ErrNotFound.
func (r *mongoWorkoutRepository) FindByStatus(ctx context.Context, userID primitive.ObjectID, status domain.WorkoutStatus) (*domain.Workout, error) {
	filter := bson.M{"userId": userID, "status": status}
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: 1}})

	var workout domain.Workout
	err := r.collection.FindOne(ctx, filter, opts).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByIDForUser retrieves one workout, scoped to its owner.
func (r *mongoWorkoutRepository) GetByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// MarkActive flips a pending workout to active. The status guard in the
// filter keeps a workout that was completed or activated in the meantime
// from being touched.
func (r *mongoWorkoutRepository) MarkActive(ctx context.Context, id, userID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "userId": userID, "status": domain.StatusPending}
	update := bson.M{"$set": bson.M{"status": domain.StatusActive}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ApplySetCompletion writes the new state of one exercise together with the
// recomputed progress and status. The $elemMatch on the previous
// completedSets value makes the write a compare-and-set: if a concurrent
// request already advanced the exercise, nothing matches and the caller
// gets ErrConflict so it can re-read and retry.
func (r *mongoWorkoutRepository) ApplySetCompletion(ctx context.Context, id, userID primitive.ObjectID, exercise domain.Exercise, prevCompletedSets int, progress float64, status domain.WorkoutStatus) error {
	filter := bson.M{
		"_id":    id,
		"userId": userID,
		"exercises": bson.M{
			"$elemMatch": bson.M{
				"id":            exercise.ID,
				"completedSets": prevCompletedSets,
			},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"exercises.$.completedSets": exercise.CompletedSets,
			"exercises.$.completed":     exercise.Completed,
			"progress":                  progress,
			"status":                    status,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrConflict
	}
	return nil
}

// ListCompleted returns completed workouts for a user, optionally
// restricted to dates at or after since and at or before until, ordered
// by date ascending.
func (r *mongoWorkoutRepository) ListCompleted(ctx context.Context, userID primitive.ObjectID, since, until *time.Time) ([]domain.Workout, error) {
	filter := bson.M{"userId": userID, "status": domain.StatusCompleted}
	dateRange := bson.M{}
	if since != nil {
		dateRange["$gte"] = *since
	}
	if until != nil {
		dateRange["$lte"] = *until
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// EnsureWorkoutIndexes creates the indexes for the workouts collection.
// Call this once during application startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Covers the seeding count, listing and status lookups.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
