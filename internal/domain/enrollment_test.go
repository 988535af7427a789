package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateComplete(t *testing.T) {
	tests := []struct {
		name string
		rows []LessonProgress
		want bool
	}{
		{name: "no rows", rows: nil, want: false},
		{name: "one open", rows: []LessonProgress{{Completed: false}}, want: false},
		{name: "mixed", rows: []LessonProgress{{Completed: true}, {Completed: false}}, want: false},
		{name: "all done", rows: []LessonProgress{{Completed: true}, {Completed: true}}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateComplete(tt.rows))
		})
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		current  EnrollmentStatus
		complete bool
		want     EnrollmentStatus
		changed  bool
	}{
		{EnrollmentActive, true, EnrollmentCompleted, true},
		{EnrollmentActive, false, EnrollmentActive, false},
		{EnrollmentCompleted, false, EnrollmentActive, true},
		{EnrollmentCompleted, true, EnrollmentCompleted, false},
		{EnrollmentDropped, true, EnrollmentDropped, false},
		{EnrollmentDropped, false, EnrollmentDropped, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.current, tt.complete), func(t *testing.T) {
			got, changed := NextStatus(tt.current, tt.complete)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(4, 4))
}

func TestLessonProgressMark(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := LessonProgress{}

	p.Mark(true, at)
	require.NotNil(t, p.CompletedAt)
	assert.True(t, p.Completed)
	assert.Equal(t, at, *p.CompletedAt)

	p.Mark(false, at.Add(time.Hour))
	assert.False(t, p.Completed)
	assert.Nil(t, p.CompletedAt)
}

func TestSummarizeProgress(t *testing.T) {
	l1, l2 := uuid.New(), uuid.New()
	at := time.Now().UTC()
	e := &Enrollment{ID: uuid.New(), Status: EnrollmentActive}
	rows := []LessonProgress{
		{LessonID: l1, Completed: true, CompletedAt: &at},
		{LessonID: l2},
	}

	s := SummarizeProgress(e, rows)
	assert.Equal(t, e.ID, s.EnrollmentID)
	assert.Equal(t, ProgressCounts{Completed: 1, Total: 2, Percent: 50}, s.Summary)
	assert.True(t, s.PerLesson[l1].Completed)
	assert.False(t, s.PerLesson[l2].Completed)
	assert.Nil(t, s.PerLesson[l2].CompletedAt)
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrAlreadyEnrolled, ErrConflict))
	assert.True(t, errors.Is(ErrCourseNotEnrollable, ErrInvalidState))
	assert.Equal(t, ErrNotFound, KindOf(ErrLessonNotFound))
	assert.Nil(t, KindOf(errors.New("boom")))

	wrapped := fmt.Errorf("handler: %w", ErrAdminOnly)
	assert.Equal(t, ErrForbidden, KindOf(wrapped))
	assert.Equal(t, "admin role required", Message(wrapped))

	cause := errors.New("disk full")
	err := WrapError("course.Create", ErrValidation, "bad input", cause)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "course.Create: bad input: disk full", err.Error())
}
