package repository

import (
	"context"
	"sync"
	"sync/atomic"

	"courseapi/internal/models"
	"courseapi/internal/qerrors"
)

// MemoryRepository keeps courses in process memory. It backs STORE_DRIVER=memory and doubles as the store in
// tests, where Calls shows whether a request reached the store at all.
type MemoryRepository struct {
	calls int64

	coursesLock *sync.RWMutex
	courses     map[string]map[string]interface{}
	order       []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		coursesLock: &sync.RWMutex{},
		courses:     make(map[string]map[string]interface{}),
	}
}

// Calls returns the number of store operations performed so far.
func (r *MemoryRepository) Calls() int64 {
	return atomic.LoadInt64(&r.calls)
}

func (r *MemoryRepository) ListCourses(_ context.Context) ([]*models.Course, error) {
	atomic.AddInt64(&r.calls, 1)
	r.coursesLock.RLock()
	defer r.coursesLock.RUnlock()

	courses := make([]*models.Course, 0, len(r.order))
	for _, id := range r.order {
		c, err := r.decode(id)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	return courses, nil
}

func (r *MemoryRepository) GetCourseByID(_ context.Context, id string) (*models.Course, error) {
	atomic.AddInt64(&r.calls, 1)
	r.coursesLock.RLock()
	defer r.coursesLock.RUnlock()

	if _, ok := r.courses[id]; !ok {
		return nil, qerrors.CourseNotFoundError
	}
	return r.decode(id)
}

func (r *MemoryRepository) CreateCourse(_ context.Context, c *models.Course) (string, error) {
	atomic.AddInt64(&r.calls, 1)
	r.coursesLock.Lock()
	defer r.coursesLock.Unlock()

	id := models.NewCourseID()
	doc := c.Document()
	doc[models.CourseIDField] = id

	r.courses[id] = doc
	r.order = append(r.order, id)

	return id, nil
}

func (r *MemoryRepository) DeleteCourse(_ context.Context, id string) (int64, error) {
	atomic.AddInt64(&r.calls, 1)
	r.coursesLock.Lock()
	defer r.coursesLock.Unlock()

	if _, ok := r.courses[id]; !ok {
		return 0, nil
	}

	delete(r.courses, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return 1, nil
}

func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

func (r *MemoryRepository) Close(_ context.Context) error {
	return nil
}

// decode must be called with coursesLock held.
func (r *MemoryRepository) decode(id string) (*models.Course, error) {
	return models.DecodeCourse(r.courses[id])
}
