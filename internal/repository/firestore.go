package repository

import (
	"context"
	"fmt"

	"courseapi/internal/models"
	"courseapi/internal/qerrors"

	"cloud.google.com/go/firestore"
	firebaseSDK "firebase.google.com/go"
	"github.com/golang/glog"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository stores courses in a Firestore collection. Firestore has no ObjectIDs, so document IDs are
// minted in the same 24 character hex form the Mongo store uses.
type FirestoreRepository struct {
	firestoreClient *firestore.Client
	collection      string
}

func NewFirestoreRepository(ctx context.Context, app *firebaseSDK.App, collection string) (*FirestoreRepository, error) {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("Firestore client error: %w", err)
	}

	fr := &FirestoreRepository{
		firestoreClient: firestoreClient,
		collection:      collection,
	}
	glog.Infof("✅ Successfully created Firestore repository client for collection %q", collection)

	return fr, nil
}

func (fr *FirestoreRepository) ListCourses(ctx context.Context) ([]*models.Course, error) {
	it := fr.firestoreClient.Collection(fr.collection).Documents(ctx)
	defer it.Stop()

	courses := make([]*models.Course, 0)
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Documents.Next: %w", err)
		}

		c, err := decodeSnapshot(doc)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	return courses, nil
}

func (fr *FirestoreRepository) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	doc, err := fr.firestoreClient.Collection(fr.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, qerrors.CourseNotFoundError
	}
	if err != nil {
		return nil, fmt.Errorf("error getting course %s: %w", id, err)
	}

	return decodeSnapshot(doc)
}

func (fr *FirestoreRepository) CreateCourse(ctx context.Context, c *models.Course) (string, error) {
	id := models.NewCourseID()
	_, err := fr.firestoreClient.Collection(fr.collection).Doc(id).Create(ctx, c.Document())
	if err != nil {
		return "", fmt.Errorf("error creating course: %w", err)
	}

	return id, nil
}

// DeleteCourse reads and deletes the document in one transaction so that a missing course is reported as zero
// deletions rather than a successful no-op.
func (fr *FirestoreRepository) DeleteCourse(ctx context.Context, id string) (int64, error) {
	ref := fr.firestoreClient.Collection(fr.collection).Doc(id)

	var deleted int64
	err := fr.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = 0
		_, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(ref); err != nil {
			return err
		}
		deleted = 1
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error deleting course %s: %w", id, err)
	}

	return deleted, nil
}

func (fr *FirestoreRepository) Ping(ctx context.Context) error {
	it := fr.firestoreClient.Collection(fr.collection).Limit(1).Documents(ctx)
	defer it.Stop()

	_, err := it.Next()
	if err != nil && err != iterator.Done {
		return err
	}
	return nil
}

func (fr *FirestoreRepository) Close(_ context.Context) error {
	return fr.firestoreClient.Close()
}

func decodeSnapshot(doc *firestore.DocumentSnapshot) (*models.Course, error) {
	c, err := models.DecodeCourse(doc.Data())
	if err != nil {
		return nil, err
	}

	c.ID = doc.Ref.ID
	return c, nil
}
