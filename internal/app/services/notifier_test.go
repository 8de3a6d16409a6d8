package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/pkg/cache"
	"github.com/yigit/timetable/internal/pkg/websocket"
)

func TestScheduleNotifierPublishesTopics(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory()
	require.NoError(t, c.Set(ctx, cache.Key("master", 1), 0, "stale"))
	pub := &recordingPublisher{}
	n := NewScheduleNotifier(c, pub, zerolog.Nop())

	n.ScheduleChanged(ctx, ScheduleChange{TermID: 1, TeacherID: 3, CourseIDs: []int64{9}, StudentIDs: []int64{11, 12}})

	assert.Equal(t, 0, c.Len())
	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, websocket.EventScheduleChanged, events[0].Type)
	assert.Equal(t, []string{"master", "teacher:3", "course:9", "student:11", "student:12"}, events[0].Topics)
	assert.Equal(t, int64(1), events[0].TermID)
}

func TestScheduleNotifierTermOnly(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewScheduleNotifier(nil, pub, zerolog.Nop())

	n.ScheduleChanged(context.Background(), ScheduleChange{TermID: 4})

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, []string{websocket.TopicMaster}, events[0].Topics)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, uniqueIDs([]int64{3, 0, 1}, []int64{1, 2, 3}))
	assert.Nil(t, uniqueIDs())
}
