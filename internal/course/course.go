package course

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"courseapi/internal/models"
	"courseapi/internal/qerrors"
	"courseapi/internal/repository"

	"github.com/golang/glog"
)

// Store hands out the shared repository. *database.Manager implements it.
type Store interface {
	Acquire(ctx context.Context) (repository.Repository, error)
}

// Request is a single call against the courses resource.
type Request struct {
	Method   string
	CourseID string
	Body     []byte
}

// Response is the outcome of a Request. A nil Body means the response has no content.
type Response struct {
	Status int
	Body   interface{}
}

// ErrResponse is the JSON body of every error response.
type ErrResponse struct {
	Error string `json:"error"`
}

// Dispatcher maps requests on the courses resource to repository operations. It holds no per-request state.
type Dispatcher struct {
	store Store
	now   func() time.Time
}

func NewDispatcher(store Store) *Dispatcher {
	return &Dispatcher{
		store: store,
		now:   time.Now,
	}
}

// Dispatch performs the operation selected by the request method and the presence of a course ID.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case http.MethodGet:
		if req.CourseID == "" {
			return d.listCourses(ctx)
		}
		return d.getCourse(ctx, req.CourseID)
	case http.MethodPost:
		return d.createCourse(ctx, req.Body)
	case http.MethodDelete:
		if req.CourseID == "" {
			return errorResponse(http.StatusBadRequest, "ID required for deletion")
		}
		return d.deleteCourse(ctx, req.CourseID)
	default:
		return errorResponse(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed", req.Method))
	}
}

func (d *Dispatcher) listCourses(ctx context.Context) *Response {
	repo, resp := d.acquire(ctx)
	if resp != nil {
		return resp
	}

	courses, err := repo.ListCourses(ctx)
	if err != nil {
		return internalError("error listing courses", err)
	}

	return &Response{Status: http.StatusOK, Body: courses}
}

func (d *Dispatcher) getCourse(ctx context.Context, id string) *Response {
	if !models.IsValidCourseID(id) {
		return errorResponse(http.StatusBadRequest, "Invalid course ID format")
	}

	repo, resp := d.acquire(ctx)
	if resp != nil {
		return resp
	}

	c, err := repo.GetCourseByID(ctx, id)
	if errors.Is(err, qerrors.CourseNotFoundError) {
		return errorResponse(http.StatusNotFound, "Course not found")
	}
	if err != nil {
		return internalError("error getting course "+id, err)
	}

	return &Response{Status: http.StatusOK, Body: c}
}

func (d *Dispatcher) createCourse(ctx context.Context, body []byte) *Response {
	fields, err := parseCourseBody(body)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body")
	}

	repo, resp := d.acquire(ctx)
	if resp != nil {
		return resp
	}

	id, err := repo.CreateCourse(ctx, models.NewCourse(fields, d.now()))
	if err != nil {
		return internalError("error adding course", err)
	}

	// Respond with the course as the store persisted it rather than echoing the insert.
	c, err := repo.GetCourseByID(ctx, id)
	if err != nil {
		return internalError("error reading back course "+id, err)
	}

	return &Response{Status: http.StatusCreated, Body: c}
}

func (d *Dispatcher) deleteCourse(ctx context.Context, id string) *Response {
	if !models.IsValidCourseID(id) {
		return errorResponse(http.StatusBadRequest, "Invalid course ID format")
	}

	repo, resp := d.acquire(ctx)
	if resp != nil {
		return resp
	}

	deleted, err := repo.DeleteCourse(ctx, id)
	if err != nil {
		return internalError("error deleting course "+id, err)
	}
	if deleted != 1 {
		return errorResponse(http.StatusNotFound, "Course not found for deletion")
	}

	return &Response{Status: http.StatusNoContent}
}

// acquire returns the shared repository, or a 503 response if the store can't be reached.
func (d *Dispatcher) acquire(ctx context.Context) (repository.Repository, *Response) {
	repo, err := d.store.Acquire(ctx)
	if err != nil {
		glog.Errorf("%v: %v\n", qerrors.StoreUnavailableError, err)
		return nil, errorResponse(http.StatusServiceUnavailable, "Database not initialized.")
	}

	return repo, nil
}

// parseCourseBody decodes a create body. An empty body is an empty course; anything other than a JSON object is
// rejected.
func parseCourseBody(body []byte) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}

	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.InvalidCourseBodyError, err)
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}

	return fields, nil
}

func errorResponse(status int, message string) *Response {
	return &Response{Status: status, Body: &ErrResponse{Error: message}}
}

func internalError(msg string, err error) *Response {
	glog.Errorf("%s: %v\n", msg, err)
	return errorResponse(http.StatusInternalServerError, "Internal Server Error")
}
