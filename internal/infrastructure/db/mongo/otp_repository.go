package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tokomart/account-system/internal/core/domain"
)

const collectionOtps = "otps"

// OtpRepository stores one-time passcodes referencing accounts by owner id.
type OtpRepository struct {
	col *mongo.Collection
}

func NewOtpRepository(db *mongo.Database) *OtpRepository {
	return &OtpRepository{col: db.Collection(collectionOtps)}
}

type otpDoc struct {
	ID        string `bson:"id"`
	Code      string `bson:"code"`
	CreatedBy string `bson:"created_by"`
	CreatedAt int64  `bson:"created_at"`
}

func (d *otpDoc) toDomain() *domain.Otp {
	return &domain.Otp{ID: d.ID, Code: d.Code, CreatedBy: d.CreatedBy, CreatedAt: d.CreatedAt}
}

func (r *OtpRepository) Create(ctx context.Context, o *domain.Otp) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := otpDoc{ID: o.ID, Code: o.Code, CreatedBy: o.CreatedBy, CreatedAt: o.CreatedAt}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

func (r *OtpRepository) FindByID(ctx context.Context, id string) (*domain.Otp, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc otpDoc
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find otp: %w", err)
	}
	return doc.toDomain(), nil
}

// FindLastByOwner returns the most recently issued code for the owner.
func (r *OtpRepository) FindLastByOwner(ctx context.Context, ownerID string) (*domain.Otp, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc otpDoc
	if err := r.col.FindOne(ctx, bson.M{"created_by": ownerID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find last otp: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OtpRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// DeleteManyByOwner purges every code owned by ownerID; zero matches is a
// successful no-op.
func (r *OtpRepository) DeleteManyByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"created_by": ownerID})
	if err != nil {
		return 0, fmt.Errorf("delete otps by owner: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *OtpRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
