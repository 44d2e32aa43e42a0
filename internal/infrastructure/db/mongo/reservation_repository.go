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

const collectionReservations = "reservations"

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection(collectionReservations)}
}

type mongoReservation struct {
	ID         primitive.ObjectID       `bson:"_id,omitempty"`
	UserID     string                   `bson:"user_id"`
	LockerID   string                   `bson:"locker_id"`
	StartTime  time.Time                `bson:"start_time"`
	EndTime    *time.Time               `bson:"end_time,omitempty"`
	TotalPrice *float64                 `bson:"total_price,omitempty"`
	Status     domain.ReservationStatus `bson:"status"`
	CreatedAt  time.Time                `bson:"created_at"`
}

func (mr *mongoReservation) toDomain() *domain.Reservation {
	return &domain.Reservation{
		ID:         mr.ID.Hex(),
		UserID:     mr.UserID,
		LockerID:   mr.LockerID,
		StartTime:  mr.StartTime,
		EndTime:    mr.EndTime,
		TotalPrice: mr.TotalPrice,
		Status:     mr.Status,
		CreatedAt:  mr.CreatedAt,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoReservation{
		UserID:    res.UserID,
		LockerID:  res.LockerID,
		StartTime: res.StartTime,
		Status:    res.Status,
		CreatedAt: res.CreatedAt,
	}

	insert, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}

	created := *res
	created.ID = insert.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoReservation
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return mr.toDomain(), nil
}

// List returns reservations matching the filter, newest first.
func (r *ReservationRepository) List(ctx context.Context, filter ports.ListReservationsFilter) ([]*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer cur.Close(ctx)

	reservations := make([]*domain.Reservation, 0)
	for cur.Next(ctx) {
		var mr mongoReservation
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode reservation: %w", err)
		}
		reservations = append(reservations, mr.toDomain())
	}
	return reservations, cur.Err()
}

// Close moves the reservation from active to the given terminal status in a
// single conditional update. A reservation that is no longer active matches
// nothing and yields ErrReservationClosed.
func (r *ReservationRepository) Close(ctx context.Context, id string, status domain.ReservationStatus, endTime time.Time, totalPrice float64) (*domain.Reservation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoReservation
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "status": domain.ReservationActive},
		bson.M{"$set": bson.M{
			"status":      status,
			"end_time":    endTime,
			"total_price": totalPrice,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish a missing reservation from an already-closed one.
			if n, countErr := r.col.CountDocuments(ctx, bson.M{"_id": oid}); countErr == nil && n == 0 {
				return nil, domain.ErrReservationNotFound
			}
			return nil, domain.ErrReservationClosed
		}
		return nil, fmt.Errorf("close reservation: %w", err)
	}
	return mr.toDomain(), nil
}

// DeleteByLocker removes all reservations referencing the locker (cascade on
// locker delete).
func (r *ReservationRepository) DeleteByLocker(ctx context.Context, lockerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"locker_id": lockerID})
	if err != nil {
		return 0, fmt.Errorf("delete reservations: %w", err)
	}
	return res.DeletedCount, nil
}
