package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainnotification "innkeep/internal/domain/notification"
	domainreservation "innkeep/internal/domain/reservation"
	domainuser "innkeep/internal/domain/user"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	col := db.Collection("agg_notification")
	// The unique (reservation_id, type) pair is what lets sweeps and
	// retried transitions run without double-notifying anyone.
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "reservation_id", Value: 1}, {Key: "type", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}})
	return &NotificationRepository{col: col}
}

func (r *NotificationRepository) ByUser(ctx context.Context, userID domainuser.ID) ([]*domainnotification.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": string(userID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainnotification.Notification
	for cur.Next(ctx) {
		var doc notificationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *NotificationRepository) Exists(ctx context.Context, reservationID domainreservation.ID, typ domainnotification.Type) (bool, error) {
	filter := bson.M{"reservation_id": string(reservationID), "type": string(typ)}
	err := r.col.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *NotificationRepository) Save(ctx context.Context, n *domainnotification.Notification) error {
	doc := notificationDocument{
		ID:            string(n.ID),
		UserID:        string(n.UserID),
		ReservationID: string(n.ReservationID),
		Type:          string(n.Type),
		Message:       n.Message,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt.UnixMilli(),
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return domainnotification.ErrDuplicate
	}
	return err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id domainnotification.ID, userID domainuser.ID) error {
	filter := bson.M{"_id": string(id), "user_id": string(userID)}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainnotification.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID domainuser.ID) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"user_id": string(userID)}, bson.M{"$set": bson.M{"is_read": true}})
	return err
}

type notificationDocument struct {
	ID            string `bson:"_id"`
	UserID        string `bson:"user_id"`
	ReservationID string `bson:"reservation_id"`
	Type          string `bson:"type"`
	Message       string `bson:"message"`
	IsRead        bool   `bson:"is_read"`
	CreatedAt     int64  `bson:"created_at"`
}

func (d notificationDocument) toAggregate() *domainnotification.Notification {
	return &domainnotification.Notification{
		ID:            domainnotification.ID(d.ID),
		UserID:        domainuser.ID(d.UserID),
		ReservationID: domainreservation.ID(d.ReservationID),
		Type:          domainnotification.Type(d.Type),
		Message:       d.Message,
		IsRead:        d.IsRead,
		CreatedAt:     timestampToTime(d.CreatedAt),
	}
}

var _ domainnotification.Repository = (*NotificationRepository)(nil)
