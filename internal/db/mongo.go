package db

import (
	"context"
	"fmt"

	"dinoco-api/internal/config"
	"dinoco-api/internal/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Colecciones
const (
	ColUsers           = "users"
	ColLoginOTPs       = "login_otps"
	ColMovies          = "movies"
	ColReviews         = "reviews"
	ColDecisionTraces  = "decision_traces"
	ColRecommendations = "recommendations"
)

// Connect abre el cliente y valida la conexión con un ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	logging.Info().Str("db", cfg.DB).Msg("[mongo] conectado")
	return client, client.Database(cfg.DB), nil
}

// EnsureIndexes crea los índices que sostienen las reglas de la API
// (email único, una review por usuario y película) y los de consulta.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		ColUsers: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ColLoginOTPs: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			// Mongo borra solos los OTP vencidos hace más de un día
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(86400)},
		},
		ColMovies: {
			{Keys: bson.D{{Key: "movieId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "genre", Value: 1}}},
			{Keys: bson.D{{Key: "ratingStats.average", Value: -1}}},
		},
		ColReviews: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "movieId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "movieId", Value: 1}, {Key: "reviewDate", Value: -1}}},
		},
		ColDecisionTraces: {
			{Keys: bson.D{{Key: "traceId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "movieId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "decisionSource", Value: 1}}},
		},
		ColRecommendations: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for col, models := range specs {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", col, err)
		}
	}
	return nil
}
