package repository

import (
	"context"
	"errors"
	"regexp"

	"dinoco-api/internal/db"
	"dinoco-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewUserRepository(database *mongo.Database) *UserRepository {
	col := database.Collection(db.ColUsers)
	return &UserRepository{col: col, seq: newSequence(database, col, "userId")}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID int) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetNextUserID(ctx context.Context) (int, error) {
	return r.seq.Next(ctx)
}

// Insert devuelve ErrDuplicate si el email ya existe.
func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	_, err := r.col.InsertOne(ctx, u)
	return wrapInsertErr(err)
}

// UpdateByID aplica un $set parcial sobre el usuario.
func (r *UserRepository) UpdateByID(ctx context.Context, userID int, update bson.M) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": update},
	)
	if err != nil {
		return wrapInsertErr(err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Search lista usuarios filtrando por rol ("all" = todos) y texto en nombre/email.
func (r *UserRepository) Search(ctx context.Context, role, q string, limit, offset int) ([]models.User, error) {
	filter := bson.M{}
	if role != "" && role != "all" {
		filter["role"] = role
	}
	if q != "" {
		rx := containsFold(q)
		filter["$or"] = bson.A{
			bson.M{"email": rx},
			bson.M{"name": rx},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "userId", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func containsFold(q string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
}
