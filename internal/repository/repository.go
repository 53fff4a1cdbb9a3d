package repository

import (
	"context"

	"courseapi/internal/models"
)

// Repository encapsulates the logic to access courses from a document store. Implementations must be safe for
// concurrent use; a single instance is shared by every request.
type Repository interface {
	// ListCourses returns every course in the collection, in store order.
	ListCourses(ctx context.Context) ([]*models.Course, error)
	// GetCourseByID returns the course with the given ID, or qerrors.CourseNotFoundError.
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	// CreateCourse saves a new course and returns the identifier the store assigned to it.
	CreateCourse(ctx context.Context, c *models.Course) (string, error)
	// DeleteCourse removes the course with the given ID and reports how many documents were deleted.
	DeleteCourse(ctx context.Context, id string) (int64, error)
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
