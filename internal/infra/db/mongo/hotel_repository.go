package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "innkeep/internal/domain/hotel"
)

type HotelRepository struct {
	col *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) *HotelRepository {
	return &HotelRepository{col: db.Collection("agg_hotel")}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	var doc hotelDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainhotel.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *HotelRepository) List(ctx context.Context) ([]*domainhotel.Hotel, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainhotel.Hotel
	for cur.Next(ctx) {
		var doc hotelDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *HotelRepository) Save(ctx context.Context, h *domainhotel.Hotel) error {
	doc := hotelDocument{
		ID:        string(h.ID),
		Name:      h.Name,
		Address:   h.Address,
		City:      h.City,
		Phone:     h.Phone,
		Email:     h.Email,
		CreatedAt: h.CreatedAt.UnixMilli(),
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *HotelRepository) Delete(ctx context.Context, id domainhotel.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainhotel.ErrNotFound
	}
	return nil
}

type hotelDocument struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Address   string `bson:"address"`
	City      string `bson:"city"`
	Phone     string `bson:"phone"`
	Email     string `bson:"email"`
	CreatedAt int64  `bson:"created_at"`
}

func (d hotelDocument) toAggregate() *domainhotel.Hotel {
	return &domainhotel.Hotel{
		ID:        domainhotel.ID(d.ID),
		Name:      d.Name,
		Address:   d.Address,
		City:      d.City,
		Phone:     d.Phone,
		Email:     d.Email,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

var _ domainhotel.Repository = (*HotelRepository)(nil)
