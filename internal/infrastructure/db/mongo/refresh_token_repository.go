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

const collectionRefreshTokens = "refresh_tokens"

// RefreshTokenRepository stores refresh tokens referencing accounts by owner
// id. Beyond the id itself there are no uniqueness constraints.
type RefreshTokenRepository struct {
	col *mongo.Collection
}

func NewRefreshTokenRepository(db *mongo.Database) *RefreshTokenRepository {
	return &RefreshTokenRepository{col: db.Collection(collectionRefreshTokens)}
}

type refreshTokenDoc struct {
	ID        string `bson:"id"`
	CreatedBy string `bson:"created_by"`
	CreatedAt int64  `bson:"created_at"`
}

func (d *refreshTokenDoc) toDomain() *domain.RefreshToken {
	return &domain.RefreshToken{ID: d.ID, CreatedBy: d.CreatedBy, CreatedAt: d.CreatedAt}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := refreshTokenDoc{ID: t.ID, CreatedBy: t.CreatedBy, CreatedAt: t.CreatedAt}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) FindByID(ctx context.Context, id string) (*domain.RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc refreshTokenDoc
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return doc.toDomain(), nil
}

// FindLastByOwner returns the most recently created token for the owner.
func (r *RefreshTokenRepository) FindLastByOwner(ctx context.Context, ownerID string) (*domain.RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc refreshTokenDoc
	if err := r.col.FindOne(ctx, bson.M{"created_by": ownerID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find last refresh token: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// DeleteManyByOwner purges every token owned by ownerID and returns the
// count. Re-running against an already-clean owner returns zero, not an error.
func (r *RefreshTokenRepository) DeleteManyByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"created_by": ownerID})
	if err != nil {
		return 0, fmt.Errorf("delete refresh tokens by owner: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the owner lookup index used by the last-by-owner
// query and the bulk purge.
func (r *RefreshTokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
