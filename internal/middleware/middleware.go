package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey string

const (
	courseIDKey  ctxKey = "courseID"
	requestIDKey ctxKey = "requestID"

	// RequestIDHeader carries the request correlation ID in both directions.
	RequestIDHeader = "X-Request-ID"
)

// CourseCtx puts the course ID of the request in the context. The ID comes from the {courseID} URL param, or
// from the "id" query parameter used by serverless deployments.
func CourseCtx() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			courseID := chi.URLParam(r, "courseID")
			if courseID == "" {
				courseID = r.URL.Query().Get("id")
			}

			ctx := context.WithValue(r.Context(), courseIDKey, courseID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCourseID returns the course ID set by CourseCtx, or "" if there is none.
func GetCourseID(r *http.Request) string {
	if id, ok := r.Context().Value(courseIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestID reuses the inbound X-Request-ID header or mints a new UUID, and echoes it on the response.
func RequestID() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set(RequestIDHeader, requestID)
			ctx := context.WithValue(r.Context(), requestIDKey, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID returns the request ID set by RequestID, or "" if there is none.
func GetRequestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
