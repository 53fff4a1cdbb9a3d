package course

import (
	"io"
	"net/http"

	"courseapi/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

// Routes serves the courses resource. Every method is routed to the Dispatcher, which decides what is allowed.
func Routes(d *Dispatcher, maxBodyBytes int64) *chi.Mux {
	router := chi.NewRouter()
	handler := coursesHandler(d, maxBodyBytes)

	// /, /?id={courseID}
	router.With(middleware.CourseCtx()).HandleFunc("/", handler)
	// /{courseID}
	router.With(middleware.CourseCtx()).HandleFunc("/{courseID}", handler)

	return router
}

func coursesHandler(d *Dispatcher, maxBodyBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &Request{
			Method:   r.Method,
			CourseID: middleware.GetCourseID(r),
		}

		if r.Method == http.MethodPost {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeResponse(w, r, errorResponse(http.StatusBadRequest, "Invalid request body"))
				return
			}
			req.Body = body
		}

		resp := d.Dispatch(r.Context(), req)
		if resp.Status >= http.StatusInternalServerError {
			glog.Warningf("request %s: %s %s failed with %d\n", middleware.GetRequestID(r), r.Method, r.URL.Path, resp.Status)
		}

		writeResponse(w, r, resp)
	}
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp *Response) {
	if resp.Body == nil {
		w.WriteHeader(resp.Status)
		return
	}

	render.Status(r, resp.Status)
	render.JSON(w, r, resp.Body)
}
