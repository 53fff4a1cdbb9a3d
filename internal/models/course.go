package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultCourseTitle is stored when a course is created without a title.
	DefaultCourseTitle = "Untitled Course"

	CourseIDField        = "_id"
	CourseTitleField     = "title"
	CourseCreatedAtField = "createdAt"
)

// Course is a single document in the courses collection. Title and CreatedAt are always present on stored
// courses; any other field the caller submitted lives in Extra and is passed through untouched.
type Course struct {
	ID        string                 `json:"_id" mapstructure:"_id"`
	Title     string                 `json:"title" mapstructure:"title"`
	CreatedAt time.Time              `json:"createdAt" mapstructure:"createdAt"`
	Extra     map[string]interface{} `json:"-" mapstructure:",remain"`
}

// NewCourse builds the course to insert from a create request body. createdAt is always stamped with now, the
// title falls back to DefaultCourseTitle unless the body carries a non-empty string, and a caller-supplied
// identifier is dropped since identifiers are assigned by the store.
func NewCourse(fields map[string]interface{}, now time.Time) *Course {
	c := &Course{
		Title:     DefaultCourseTitle,
		CreatedAt: now,
		Extra:     make(map[string]interface{}, len(fields)),
	}

	for k, v := range fields {
		switch k {
		case CourseIDField, CourseCreatedAtField:
		case CourseTitleField:
			if title, ok := v.(string); ok && title != "" {
				c.Title = title
			}
		default:
			c.Extra[k] = v
		}
	}

	return c
}

// Document returns the fields persisted for this course, without its identifier.
func (c *Course) Document() map[string]interface{} {
	doc := make(map[string]interface{}, len(c.Extra)+2)
	for k, v := range c.Extra {
		doc[k] = v
	}
	doc[CourseTitleField] = c.Title
	doc[CourseCreatedAtField] = c.CreatedAt

	return doc
}

// MarshalJSON flattens Extra into the top level of the object. Known fields take precedence.
func (c Course) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Extra)+3)
	for k, v := range c.Extra {
		out[k] = v
	}
	out[CourseIDField] = c.ID
	out[CourseTitleField] = c.Title
	out[CourseCreatedAtField] = c.CreatedAt

	return json.Marshal(out)
}

// IsValidCourseID reports whether id is a well-formed course identifier (a 24 character hex ObjectID).
func IsValidCourseID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// NewCourseID mints an identifier for stores that don't assign ObjectIDs themselves.
func NewCourseID() string {
	return primitive.NewObjectID().Hex()
}

// DecodeCourse decodes a stored document into a Course. Store-native identifier and timestamp types (ObjectID,
// BSON DateTime) are converted on the way in. Keys match fields exactly, so a stored "_ID" or "Title" stays in Extra.
func DecodeCourse(doc map[string]interface{}) (*Course, error) {
	var c Course
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(objectIDHook, dateTimeHook),
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
		Result: &c,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("error destructuring course document: %w", err)
	}

	return &c, nil
}

func objectIDHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if id, ok := data.(primitive.ObjectID); ok && t.Kind() == reflect.String {
		return id.Hex(), nil
	}
	return data, nil
}

func dateTimeHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if t != reflect.TypeOf(time.Time{}) {
		return data, nil
	}

	switch v := data.(type) {
	case primitive.DateTime:
		return v.Time().UTC(), nil
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0).UTC(), nil
	}
	return data, nil
}
