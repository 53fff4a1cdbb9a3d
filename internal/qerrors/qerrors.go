package qerrors

import "errors"

var (
	// Course errors
	CourseNotFoundError    = errors.New("course not found")
	InvalidCourseIDError   = errors.New("invalid course ID format")
	InvalidCourseBodyError = errors.New("request body must be a JSON object")

	// Store errors
	StoreUnavailableError = errors.New("database not initialized")
)
