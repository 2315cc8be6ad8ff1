package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	domainrange "innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
	domainuser "innkeep/internal/domain/user"
)

// ReservationRepository persists reservations plus one claim document per
// occupied night. The unique (room_id, night) index on the claims collection
// is the commit-time fence: when two transactions race for the same night,
// the second insert fails with a duplicate key and the booking is rejected.
type ReservationRepository struct {
	col    *mongo.Collection
	claims *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	claims := db.Collection("room_night_claims")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "night", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = claims.Indexes().CreateOne(context.Background(), idx)
	col := db.Collection("agg_reservation")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "status", Value: 1}}})
	return &ReservationRepository{col: col, claims: claims}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ID) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainreservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReservationRepository) ByUser(ctx context.Context, userID domainuser.ID) ([]*domainreservation.Reservation, error) {
	return r.find(ctx, bson.M{"user_id": string(userID)})
}

func (r *ReservationRepository) ByStatus(ctx context.Context, status domainreservation.Status) ([]*domainreservation.Reservation, error) {
	return r.find(ctx, bson.M{"status": string(status)})
}

func (r *ReservationRepository) List(ctx context.Context) ([]*domainreservation.Reservation, error) {
	return r.find(ctx, bson.M{})
}

func (r *ReservationRepository) find(ctx context.Context, filter bson.M) ([]*domainreservation.Reservation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainreservation.Reservation
	for cur.Next(ctx) {
		var doc reservationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	doc := newReservationDocument(res)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *ReservationRepository) AnyActiveOverlap(ctx context.Context, roomID domainroom.ID, stay domainrange.DateRange) (bool, error) {
	occupying := []string{
		string(domainreservation.StatusBooked),
		string(domainreservation.StatusConfirmed),
		string(domainreservation.StatusCheckedIn),
	}
	filter := bson.M{
		"room_id":   string(roomID),
		"status":    bson.M{"$in": occupying},
		"check_in":  bson.M{"$lt": stay.CheckOut.UnixMilli()},
		"check_out": bson.M{"$gt": stay.CheckIn.UnixMilli()},
	}
	err := r.col.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ReservationRepository) ClaimNights(ctx context.Context, roomID domainroom.ID, id domainreservation.ID, stay domainrange.DateRange) error {
	docs := make([]interface{}, 0, stay.Nights())
	for _, night := range stay.Days() {
		docs = append(docs, bson.M{
			"_id":            fmt.Sprintf("%s:%s", roomID, night.Format("2006-01-02")),
			"room_id":        string(roomID),
			"night":          night,
			"reservation_id": string(id),
			"claimed_at":     time.Now().UTC(),
		})
	}
	// Ordered inserts stop at the first conflict, which is enough: any
	// duplicate means the night belongs to another reservation and the
	// surrounding transaction rolls the partial claims back.
	_, err := r.claims.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainreservation.ErrRoomUnavailable
		}
		return err
	}
	return nil
}

func (r *ReservationRepository) ReleaseNights(ctx context.Context, id domainreservation.ID) error {
	_, err := r.claims.DeleteMany(ctx, bson.M{"reservation_id": string(id)})
	return err
}

type reservationDocument struct {
	ID           string `bson:"_id"`
	RoomID       string `bson:"room_id"`
	UserID       string `bson:"user_id"`
	CheckIn      int64  `bson:"check_in"`
	CheckOut     int64  `bson:"check_out"`
	Guests       int    `bson:"guests"`
	TotalAmount  int64  `bson:"total_amount"`
	Currency     string `bson:"currency"`
	Status       string `bson:"status"`
	CreatedAt    int64  `bson:"created_at"`
	CheckedInAt  *int64 `bson:"checked_in_at,omitempty"`
	CheckedOutAt *int64 `bson:"checked_out_at,omitempty"`
}

func newReservationDocument(res *domainreservation.Reservation) reservationDocument {
	doc := reservationDocument{
		ID:          string(res.ID),
		RoomID:      string(res.RoomID),
		UserID:      string(res.UserID),
		CheckIn:     res.Stay.CheckIn.UnixMilli(),
		CheckOut:    res.Stay.CheckOut.UnixMilli(),
		Guests:      res.Guests,
		TotalAmount: res.TotalAmount.Amount,
		Currency:    res.TotalAmount.Currency,
		Status:      string(res.Status),
		CreatedAt:   res.CreatedAt.UnixMilli(),
	}
	if res.CheckedInAt != nil {
		ms := res.CheckedInAt.UnixMilli()
		doc.CheckedInAt = &ms
	}
	if res.CheckedOutAt != nil {
		ms := res.CheckedOutAt.UnixMilli()
		doc.CheckedOutAt = &ms
	}
	return doc
}

func (d reservationDocument) toAggregate() *domainreservation.Reservation {
	res := &domainreservation.Reservation{
		ID:     domainreservation.ID(d.ID),
		RoomID: domainroom.ID(d.RoomID),
		UserID: domainuser.ID(d.UserID),
		Stay: domainrange.DateRange{
			CheckIn:  timestampToTime(d.CheckIn),
			CheckOut: timestampToTime(d.CheckOut),
		},
		Guests:      d.Guests,
		TotalAmount: money.Money{Amount: d.TotalAmount, Currency: d.Currency},
		Status:      domainreservation.Status(d.Status),
		CreatedAt:   timestampToTime(d.CreatedAt),
	}
	if d.CheckedInAt != nil {
		at := timestampToTime(*d.CheckedInAt)
		res.CheckedInAt = &at
	}
	if d.CheckedOutAt != nil {
		at := timestampToTime(*d.CheckedOutAt)
		res.CheckedOutAt = &at
	}
	return res
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainreservation.Repository = (*ReservationRepository)(nil)
