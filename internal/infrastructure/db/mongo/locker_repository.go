package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/citylockers/locker-system/internal/core/domain"
	"github.com/citylockers/locker-system/internal/core/ports"
)

const collectionLockers = "lockers"

type LockerRepository struct {
	col *mongo.Collection
}

func NewLockerRepository(db *mongo.Database) *LockerRepository {
	return &LockerRepository{col: db.Collection(collectionLockers)}
}

type mongoLocker struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	LockerNumber string              `bson:"locker_number"`
	Location     string              `bson:"location"`
	PricePerHour float64             `bson:"price_per_hour"`
	Status       domain.LockerStatus `bson:"status"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

func (ml *mongoLocker) toDomain() *domain.Locker {
	return &domain.Locker{
		ID:           ml.ID.Hex(),
		LockerNumber: ml.LockerNumber,
		Location:     ml.Location,
		PricePerHour: ml.PricePerHour,
		Status:       ml.Status,
		CreatedAt:    ml.CreatedAt,
		UpdatedAt:    ml.UpdatedAt,
	}
}

func (r *LockerRepository) Create(ctx context.Context, l *domain.Locker) (*domain.Locker, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoLocker{
		LockerNumber: l.LockerNumber,
		Location:     l.Location,
		PricePerHour: l.PricePerHour,
		Status:       l.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrLockerExists
		}
		return nil, fmt.Errorf("insert locker: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *LockerRepository) FindByID(ctx context.Context, id string) (*domain.Locker, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLockerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoLocker
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLockerNotFound
		}
		return nil, fmt.Errorf("find locker: %w", err)
	}
	return ml.toDomain(), nil
}

// List returns lockers matching the filter, ordered by locker_number
// ascending.
func (r *LockerRepository) List(ctx context.Context, filter ports.ListLockersFilter) ([]*domain.Locker, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "locker_number", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list lockers: %w", err)
	}
	defer cur.Close(ctx)

	lockers := make([]*domain.Locker, 0)
	for cur.Next(ctx) {
		var ml mongoLocker
		if err := cur.Decode(&ml); err != nil {
			return nil, fmt.Errorf("decode locker: %w", err)
		}
		lockers = append(lockers, ml.toDomain())
	}
	return lockers, cur.Err()
}

// Update applies the non-nil fields of patch and returns the updated locker.
func (r *LockerRepository) Update(ctx context.Context, id string, patch ports.UpdateLockerPatch) (*domain.Locker, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLockerNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.LockerNumber != nil {
		set["locker_number"] = *patch.LockerNumber
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.PricePerHour != nil {
		set["price_per_hour"] = *patch.PricePerHour
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoLocker
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ml)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLockerNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrLockerExists
		}
		return nil, fmt.Errorf("update locker: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *LockerRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrLockerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete locker: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrLockerNotFound
	}
	return nil
}

// CountByStatus scans the catalog and returns per-status counts.
func (r *LockerRepository) CountByStatus(ctx context.Context) (*ports.LockerStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &ports.LockerStats{}
	for _, c := range []struct {
		status domain.LockerStatus
		dst    *int64
	}{
		{domain.LockerAvailable, &stats.Available},
		{domain.LockerOccupied, &stats.Occupied},
		{domain.LockerMaintenance, &stats.Maintenance},
	} {
		n, err := r.col.CountDocuments(ctx, bson.M{"status": c.status})
		if err != nil {
			return nil, fmt.Errorf("count lockers: %w", err)
		}
		*c.dst = n
	}
	stats.Total = stats.Available + stats.Occupied + stats.Maintenance
	return stats, nil
}

// ClaimAvailable flips the locker from available to occupied in a single
// conditional update, so two concurrent claims on the same locker cannot
// both succeed. A zero-match result is disambiguated with a follow-up read:
// missing locker vs. locker in another status.
func (r *LockerRepository) ClaimAvailable(ctx context.Context, id string) (*domain.Locker, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLockerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoLocker
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "status": domain.LockerAvailable},
		bson.M{"$set": bson.M{"status": domain.LockerOccupied, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ml)
	if err == nil {
		return ml.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("claim locker: %w", err)
	}

	// No match: either the locker does not exist or it is not available.
	if n, countErr := r.col.CountDocuments(ctx, bson.M{"_id": oid}); countErr == nil && n == 0 {
		return nil, domain.ErrLockerNotFound
	}
	return nil, domain.ErrLockerUnavailable
}

// SetStatus unconditionally sets the locker status.
func (r *LockerRepository) SetStatus(ctx context.Context, id string, status domain.LockerStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrLockerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set locker status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLockerNotFound
	}
	return nil
}
