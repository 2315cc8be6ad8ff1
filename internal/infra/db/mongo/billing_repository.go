package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbilling "innkeep/internal/domain/billing"
	domainreservation "innkeep/internal/domain/reservation"
	"innkeep/internal/domain/shared/money"
)

type BillRepository struct {
	col *mongo.Collection
}

func NewBillRepository(db *mongo.Database) *BillRepository {
	col := db.Collection("agg_bill")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "reservation_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &BillRepository{col: col}
}

func (r *BillRepository) ByID(ctx context.Context, id domainbilling.ID) (*domainbilling.Bill, error) {
	var doc billDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainbilling.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BillRepository) ByReservation(ctx context.Context, reservationID domainreservation.ID) (*domainbilling.Bill, error) {
	var doc billDocument
	if err := r.col.FindOne(ctx, bson.M{"reservation_id": string(reservationID)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainbilling.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BillRepository) List(ctx context.Context) ([]*domainbilling.Bill, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbilling.Bill
	for cur.Next(ctx) {
		var doc billDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *BillRepository) Save(ctx context.Context, b *domainbilling.Bill) error {
	doc := newBillDocument(b)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *BillRepository) Delete(ctx context.Context, id domainbilling.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainbilling.ErrNotFound
	}
	return nil
}

type billDocument struct {
	ID                string `bson:"_id"`
	ReservationID     string `bson:"reservation_id"`
	RoomCharges       int64  `bson:"room_charges"`
	AdditionalCharges int64  `bson:"additional_charges"`
	TaxAmount         int64  `bson:"tax_amount"`
	TotalAmount       int64  `bson:"total_amount"`
	Currency          string `bson:"currency"`
	Status            string `bson:"status"`
	CreatedAt         int64  `bson:"created_at"`
	PaidAt            *int64 `bson:"paid_at,omitempty"`
}

func newBillDocument(b *domainbilling.Bill) billDocument {
	doc := billDocument{
		ID:                string(b.ID),
		ReservationID:     string(b.ReservationID),
		RoomCharges:       b.RoomCharges.Amount,
		AdditionalCharges: b.AdditionalCharges.Amount,
		TaxAmount:         b.TaxAmount.Amount,
		TotalAmount:       b.TotalAmount.Amount,
		Currency:          b.TotalAmount.Currency,
		Status:            string(b.Status),
		CreatedAt:         b.CreatedAt.UnixMilli(),
	}
	if b.PaidAt != nil {
		ms := b.PaidAt.UnixMilli()
		doc.PaidAt = &ms
	}
	return doc
}

func (d billDocument) toAggregate() *domainbilling.Bill {
	b := &domainbilling.Bill{
		ID:                domainbilling.ID(d.ID),
		ReservationID:     domainreservation.ID(d.ReservationID),
		RoomCharges:       money.Money{Amount: d.RoomCharges, Currency: d.Currency},
		AdditionalCharges: money.Money{Amount: d.AdditionalCharges, Currency: d.Currency},
		TaxAmount:         money.Money{Amount: d.TaxAmount, Currency: d.Currency},
		TotalAmount:       money.Money{Amount: d.TotalAmount, Currency: d.Currency},
		Status:            domainbilling.PaymentStatus(d.Status),
		CreatedAt:         timestampToTime(d.CreatedAt),
	}
	if d.PaidAt != nil {
		at := timestampToTime(*d.PaidAt)
		b.PaidAt = &at
	}
	return b
}

var _ domainbilling.Repository = (*BillRepository)(nil)
