package repository

import (
	"context"
	"testing"
	"time"

	"courseapi/internal/models"
	"courseapi/internal/qerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	now := time.Now().UTC()

	courses, err := r.ListCourses(ctx)
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)

	first, err := r.CreateCourse(ctx, models.NewCourse(map[string]interface{}{"title": "Algebra", "code": "MATH 101"}, now))
	require.NoError(t, err)
	second, err := r.CreateCourse(ctx, models.NewCourse(nil, now))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, models.IsValidCourseID(first))

	c, err := r.GetCourseByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first, c.ID)
	assert.Equal(t, "Algebra", c.Title)
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, map[string]interface{}{"code": "MATH 101"}, c.Extra)

	courses, err = r.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, first, courses[0].ID)
	assert.Equal(t, second, courses[1].ID)

	deleted, err := r.DeleteCourse(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = r.DeleteCourse(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	_, err = r.GetCourseByID(ctx, first)
	assert.ErrorIs(t, err, qerrors.CourseNotFoundError)

	courses, err = r.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, second, courses[0].ID)

	assert.Equal(t, int64(9), r.Calls())
	assert.NoError(t, r.Ping(ctx))
	assert.NoError(t, r.Close(ctx))
}
