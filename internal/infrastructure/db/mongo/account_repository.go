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

const collectionAccounts = "accounts"

// AccountRepository is the Mongo-backed account store. Username and email
// uniqueness is enforced by unique indexes, so concurrent writers racing past
// an application-level check still cannot commit duplicates.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

// accountDoc is the persisted shape. Accounts are keyed by their own opaque
// id field rather than ObjectID, so identifiers stay uniform across services.
// No omitempty on optional fields: Update writes the full document as $set,
// and clearing a field back to empty must reach the collection.
type accountDoc struct {
	ID             string `bson:"id"`
	Role           string `bson:"role"`
	Fullname       string `bson:"fullname"`
	Username       string `bson:"username"`
	Email          string `bson:"email"`
	EmailVerified  bool   `bson:"email_verified"`
	PhoneNumber    string `bson:"phone_number"`
	Gender         string `bson:"gender"`
	BirthDate      string `bson:"birth_date"`
	ProfilePicture string `bson:"profile_picture"`
	Language       string `bson:"language"`
	Currency       string `bson:"currency"`
	LastActive     int64  `bson:"last_active"`
	Password       string `bson:"password"`
	UpdatedAt      int64  `bson:"updated_at"`
	UpdatedBy      string `bson:"updated_by"`
}

func toAccountDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:             a.ID,
		Role:           string(a.Role),
		Fullname:       a.Fullname,
		Username:       a.Username,
		Email:          a.Email,
		EmailVerified:  a.EmailVerified,
		PhoneNumber:    a.PhoneNumber,
		Gender:         string(a.Gender),
		BirthDate:      a.BirthDate,
		ProfilePicture: a.ProfilePicture,
		Language:       a.Language,
		Currency:       a.Currency,
		LastActive:     a.LastActive,
		Password:       a.Password,
		UpdatedAt:      a.UpdatedAt,
		UpdatedBy:      a.UpdatedBy,
	}
}

func (d *accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:             d.ID,
		Role:           domain.Role(d.Role),
		Fullname:       d.Fullname,
		Username:       d.Username,
		Email:          d.Email,
		EmailVerified:  d.EmailVerified,
		PhoneNumber:    d.PhoneNumber,
		Gender:         domain.Gender(d.Gender),
		BirthDate:      d.BirthDate,
		ProfilePicture: d.ProfilePicture,
		Language:       d.Language,
		Currency:       d.Currency,
		LastActive:     d.LastActive,
		Password:       d.Password,
		UpdatedAt:      d.UpdatedAt,
		UpdatedBy:      d.UpdatedBy,
	}
}

// Create inserts a new account document. Unique-index violations on username
// or email map to domain.ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toAccountDoc(a)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces every mutable field and returns the committed record.
// Changing username or email into a taken value trips the unique index and
// maps to domain.ErrAccountExists.
func (r *AccountRepository) Update(ctx context.Context, id string, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toAccountDoc(a)
	doc.ID = id

	var updated accountDoc
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": doc},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return updated.toDomain(), nil
}

// Delete removes the account and returns the record that was committed.
func (r *AccountRepository) Delete(ctx context.Context, id string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var deleted accountDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("delete account: %w", err)
	}
	return deleted.toDomain(), nil
}

// EnsureIndexes creates the unique username/email indexes plus the id lookup
// index. Must run before the service accepts writes.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: -1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: -1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
