package repository

import (
	"context"
	"errors"
	"time"

	"dinoco-api/internal/db"
	"dinoco-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OTPRepository struct {
	col *mongo.Collection
}

func NewOTPRepository(database *mongo.Database) *OTPRepository {
	return &OTPRepository{col: database.Collection(db.ColLoginOTPs)}
}

// ConsumeAllForUser invalida cualquier OTP pendiente del usuario.
func (r *OTPRepository) ConsumeAllForUser(ctx context.Context, userID int) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"userId": userID, "consumed": false},
		bson.M{"$set": bson.M{"consumed": true}},
	)
	return err
}

func (r *OTPRepository) Insert(ctx context.Context, otp *models.LoginOTP) error {
	res, err := r.col.InsertOne(ctx, otp)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		otp.ID = id
	}
	return nil
}

// LatestActive devuelve el OTP más reciente sin consumir y sin vencer, o nil.
func (r *OTPRepository) LatestActive(ctx context.Context, userID int, now time.Time) (*models.LoginOTP, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var otp models.LoginOTP
	err := r.col.FindOne(ctx, bson.M{
		"userId":    userID,
		"consumed":  false,
		"expiresAt": bson.M{"$gt": now},
	}, opts).Decode(&otp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// Consume marca el OTP como usado. Devuelve false si otro request lo consumió antes.
func (r *OTPRepository) Consume(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "consumed": false},
		bson.M{"$set": bson.M{"consumed": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
