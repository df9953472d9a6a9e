package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisitDuration(t *testing.T) {
	entry := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("进行中的访问没有时长", func(t *testing.T) {
		v := Visit{EntryTime: entry}
		assert.Nil(t, v.DurationMinutes())
		assert.Equal(t, "Ongoing", v.FormatDuration())
	})

	t.Run("已完成的访问按分钟计算时长", func(t *testing.T) {
		exit := entry.Add(2*time.Hour + 30*time.Minute)
		v := Visit{EntryTime: entry, ExitTime: &exit}

		minutes := v.DurationMinutes()
		assert.NotNil(t, minutes)
		assert.Equal(t, 150, *minutes)
		assert.Equal(t, "2h 30m", v.FormatDuration())
	})

	t.Run("不足一小时的访问", func(t *testing.T) {
		exit := entry.Add(45 * time.Minute)
		v := Visit{EntryTime: entry, ExitTime: &exit}
		assert.Equal(t, "0h 45m", v.FormatDuration())
	})

	t.Run("WithDuration保留原始字段", func(t *testing.T) {
		exit := entry.Add(time.Hour)
		v := Visit{ID: 7, Host: "王经理", EntryTime: entry, ExitTime: &exit, Status: VisitStatusCompleted}

		view := v.WithDuration()
		assert.Equal(t, uint(7), view.ID)
		assert.Equal(t, "王经理", view.Host)
		assert.Equal(t, "1h 0m", view.Duration)
		assert.Equal(t, 60, *view.DurationMinutes)
	})
}

func TestPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(2, 10, 15)

	assert.Equal(t, int64(15), meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}

func TestPaginationQueryNormalize(t *testing.T) {
	pq := PaginationQuery{Page: 0, Limit: 500}
	pq.Normalize()
	assert.Equal(t, 1, pq.Page)
	assert.Equal(t, 10, pq.Limit)

	pq = PaginationQuery{Page: 3, Limit: 25}
	pq.Normalize()
	assert.Equal(t, 3, pq.Page)
	assert.Equal(t, 25, pq.Limit)
}
