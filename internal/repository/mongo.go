package repository

import (
	"context"
	"errors"
	"fmt"

	"courseapi/internal/models"
	"courseapi/internal/qerrors"

	"github.com/golang/glog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoRepository struct {
	client  *mongo.Client
	courses *mongo.Collection
}

// NewMongoRepository connects to the deployment at uri, pings it, and selects the given database and collection.
func NewMongoRepository(ctx context.Context, uri string, database string, collection string) (*MongoRepository, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	err = client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	if err != nil {
		if dErr := client.Disconnect(context.Background()); dErr != nil {
			glog.Warningf("error disconnecting after failed ping: %v\n", dErr)
		}
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}
	glog.Infof("✅ Pinged your deployment. Successfully connected to MongoDB!")

	glog.Infof("Database %q and collection %q ready.", database, collection)

	return &MongoRepository{
		client:  client,
		courses: client.Database(database).Collection(collection),
	}, nil
}

func (r *MongoRepository) ListCourses(ctx context.Context) ([]*models.Course, error) {
	cursor, err := r.courses.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error reading courses: %w", err)
	}

	courses := make([]*models.Course, 0, len(docs))
	for _, doc := range docs {
		c, err := models.DecodeCourse(doc)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	return courses, nil
}

func (r *MongoRepository) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, qerrors.InvalidCourseIDError
	}

	var doc bson.M
	err = r.courses.FindOne(ctx, bson.M{models.CourseIDField: oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, qerrors.CourseNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting course %s: %w", id, err)
	}

	return models.DecodeCourse(doc)
}

func (r *MongoRepository) CreateCourse(ctx context.Context, c *models.Course) (string, error) {
	res, err := r.courses.InsertOne(ctx, c.Document())
	if err != nil {
		return "", fmt.Errorf("error creating course: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return oid.Hex(), nil
}

func (r *MongoRepository) DeleteCourse(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, qerrors.InvalidCourseIDError
	}

	res, err := r.courses.DeleteOne(ctx, bson.M{models.CourseIDField: oid})
	if err != nil {
		return 0, fmt.Errorf("error deleting course %s: %w", id, err)
	}

	return res.DeletedCount, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
