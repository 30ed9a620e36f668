package repository

import (
	"testing"
	"time"

	"github.com/attenda/attenda-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildFilterEmpty(t *testing.T) {
	where, args := buildFilter(model.AttendanceFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildFilterNumbersPlaceholdersInOrder(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	where, args := buildFilter(model.AttendanceFilter{
		StudentID: 3,
		ClassID:   1,
		Status:    model.StatusPresent,
		From:      &from,
		To:        &to,
	})

	assert.Equal(t,
		"WHERE a.student_id = $1 AND s.class_id = $2 AND a.status = $3 AND a.date >= $4 AND a.date < $5",
		where)
	assert.Equal(t, []any{3, 1, "Present", from, to}, args)
}
