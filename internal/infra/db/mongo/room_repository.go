package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "innkeep/internal/domain/hotel"
	domainroom "innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/money"
)

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	col := db.Collection("agg_room")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "hotel_id", Value: 1}, {Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &RoomRepository{col: col}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainroom.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RoomRepository) ByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainroom.Room, error) {
	return r.find(ctx, bson.M{"hotel_id": string(hotelID)})
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainroom.Room, error) {
	return r.find(ctx, bson.M{})
}

func (r *RoomRepository) find(ctx context.Context, filter bson.M) ([]*domainroom.Room, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainroom.Room
	for cur.Next(ctx) {
		var doc roomDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *RoomRepository) Save(ctx context.Context, rm *domainroom.Room) error {
	doc := roomDocument{
		ID:        string(rm.ID),
		HotelID:   string(rm.HotelID),
		Number:    rm.Number,
		Type:      string(rm.Type),
		BaseCents: rm.BasePrice.Amount,
		Currency:  rm.BasePrice.Currency,
		Capacity:  rm.Capacity,
		Status:    string(rm.Status),
		PhotoURL:  rm.PhotoURL,
		CreatedAt: rm.CreatedAt.UnixMilli(),
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *RoomRepository) Delete(ctx context.Context, id domainroom.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainroom.ErrNotFound
	}
	return nil
}

type roomDocument struct {
	ID        string `bson:"_id"`
	HotelID   string `bson:"hotel_id"`
	Number    string `bson:"number"`
	Type      string `bson:"type"`
	BaseCents int64  `bson:"base_cents"`
	Currency  string `bson:"currency"`
	Capacity  int    `bson:"capacity"`
	Status    string `bson:"status"`
	PhotoURL  string `bson:"photo_url,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func (d roomDocument) toAggregate() *domainroom.Room {
	return &domainroom.Room{
		ID:        domainroom.ID(d.ID),
		HotelID:   domainhotel.ID(d.HotelID),
		Number:    d.Number,
		Type:      domainroom.Type(d.Type),
		BasePrice: money.Money{Amount: d.BaseCents, Currency: d.Currency},
		Capacity:  d.Capacity,
		Status:    domainroom.Status(d.Status),
		PhotoURL:  d.PhotoURL,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

var _ domainroom.Repository = (*RoomRepository)(nil)
