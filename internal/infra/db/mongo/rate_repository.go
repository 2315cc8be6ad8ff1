package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhotel "innkeep/internal/domain/hotel"
	domainrate "innkeep/internal/domain/rate"
	domainrange "innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

type RateRepository struct {
	col *mongo.Collection
}

func NewRateRepository(db *mongo.Database) *RateRepository {
	col := db.Collection("agg_seasonal_rate")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "hotel_id", Value: 1}, {Key: "start", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &RateRepository{col: col}
}

func (r *RateRepository) ByID(ctx context.Context, id domainrate.ID) (*domainrate.SeasonalRate, error) {
	var doc rateDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainrate.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RateRepository) ByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainrate.SeasonalRate, error) {
	return r.find(ctx, bson.M{"hotel_id": string(hotelID)})
}

// IntersectingStay matches the inclusive rate window [start, end] against
// the half-open stay [check_in, check_out): start < check_out AND
// end >= check_in.
func (r *RateRepository) IntersectingStay(ctx context.Context, hotelID domainhotel.ID, stay domainrange.DateRange) ([]*domainrate.SeasonalRate, error) {
	filter := bson.M{
		"hotel_id": string(hotelID),
		"start":    bson.M{"$lt": stay.CheckOut.UnixMilli()},
		"end":      bson.M{"$gte": stay.CheckIn.UnixMilli()},
	}
	return r.find(ctx, filter)
}

func (r *RateRepository) find(ctx context.Context, filter bson.M) ([]*domainrate.SeasonalRate, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainrate.SeasonalRate
	for cur.Next(ctx) {
		var doc rateDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *RateRepository) Save(ctx context.Context, sr *domainrate.SeasonalRate) error {
	doc := rateDocument{
		ID:         string(sr.ID),
		HotelID:    string(sr.HotelID),
		Name:       sr.Name,
		Start:      sr.Start.UnixMilli(),
		End:        sr.End.UnixMilli(),
		Multiplier: int64(sr.Multiplier),
		CreatedAt:  sr.CreatedAt.UnixMilli(),
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *RateRepository) Delete(ctx context.Context, id domainrate.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainrate.ErrNotFound
	}
	return nil
}

type rateDocument struct {
	ID         string `bson:"_id"`
	HotelID    string `bson:"hotel_id"`
	Name       string `bson:"name"`
	Start      int64  `bson:"start"`
	End        int64  `bson:"end"`
	Multiplier int64  `bson:"multiplier"`
	CreatedAt  int64  `bson:"created_at"`
}

func (d rateDocument) toAggregate() *domainrate.SeasonalRate {
	return &domainrate.SeasonalRate{
		ID:         domainrate.ID(d.ID),
		HotelID:    domainhotel.ID(d.HotelID),
		Name:       d.Name,
		Start:      timestampToTime(d.Start),
		End:        timestampToTime(d.End),
		Multiplier: money.Factor(d.Multiplier),
		CreatedAt:  timestampToTime(d.CreatedAt),
	}
}

var _ domainrate.Repository = (*RateRepository)(nil)
