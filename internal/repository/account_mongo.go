package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

// mongoAccountRepository stores accounts as documents
// {username, email, password, interests, createdAt}.
type mongoAccountRepository struct {
	coll    *mongo.Collection
	health  func(context.Context) error
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewMongoAccountRepository creates a MongoDB-backed account store and makes
// sure username and email are uniquely indexed.
func NewMongoAccountRepository(ctx context.Context, coll *mongo.Collection, health func(context.Context) error, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) (AccountRepository, error) {
	r := &mongoAccountRepository{
		coll:    coll,
		health:  health,
		logger:  logger,
		metrics: metricsCollector,
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_unique_idx"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique_idx"),
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, apperrors.ServiceUnavailable("failed to create account indexes", err)
	}

	return r, nil
}

func (r *mongoAccountRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.Account, error) {
	defer r.observe("find_account_by_username_or_email", time.Now())

	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}

	var account models.Account
	if err := r.coll.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, r.mapError(ctx, "find", err)
	}
	return &account, nil
}

func (r *mongoAccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	defer r.observe("find_account_by_username", time.Now())

	var account models.Account
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&account); err != nil {
		return nil, r.mapError(ctx, "find", err)
	}
	return &account, nil
}

func (r *mongoAccountRepository) Insert(ctx context.Context, account *models.Account) error {
	defer r.observe("insert_account", time.Now())

	doc := *account
	if doc.Interests == nil {
		doc.Interests = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return r.mapError(ctx, "insert", err)
	}
	return nil
}

func (r *mongoAccountRepository) UpdateInterests(ctx context.Context, username string, interests []string) error {
	defer r.observe("update_account_interests", time.Now())

	if interests == nil {
		interests = []string{}
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"interests": interests}},
	)
	if err != nil {
		return r.mapError(ctx, "update", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound(msgUserNotFound)
	}
	return nil
}

func (r *mongoAccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	defer r.observe("list_accounts", time.Now())

	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, r.mapError(ctx, "list", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Account
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, r.mapError(ctx, "list", err)
	}

	out := make([]*models.Account, 0, len(docs))
	for i := range docs {
		out = append(out, &docs[i])
	}
	return out, nil
}

func (r *mongoAccountRepository) HealthCheck(ctx context.Context) error {
	if r.health == nil {
		return nil
	}
	if err := r.health(ctx); err != nil {
		return apperrors.ServiceUnavailable(msgStoreUnavailable, err)
	}
	return nil
}

func (r *mongoAccountRepository) observe(queryType string, start time.Time) {
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
}

func (r *mongoAccountRepository) mapError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperrors.NotFound(msgUserNotFound)
	case mongo.IsDuplicateKeyError(err):
		return apperrors.Conflict(msgAccountExists)
	}

	r.metrics.RecordDBError(op + "_error")
	r.logger.Error(ctx, "[ACCOUNT_STORE_ERROR] MongoDB operation failed", logging.Fields{"operation": op}, err)
	return apperrors.ServiceUnavailable(msgStoreUnavailable, err)
}
