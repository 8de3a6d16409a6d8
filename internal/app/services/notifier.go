package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/timetable/internal/pkg/cache"
	"github.com/yigit/timetable/internal/pkg/websocket"
)

// ScheduleChange describes a committed change to the timetable
type ScheduleChange struct {
	TermID     int64
	TeacherID  int64
	CourseIDs  []int64
	StudentIDs []int64
}

// ChangeNotifier is told about every committed schedule change
type ChangeNotifier interface {
	ScheduleChanged(ctx context.Context, change ScheduleChange)
}

// Publisher delivers events to connected clients
type Publisher interface {
	Publish(event *websocket.Event)
}

// ScheduleNotifier drops cached schedule views and pushes a
// schedule.changed event
type ScheduleNotifier struct {
	cache     cache.Cache
	publisher Publisher
	logger    zerolog.Logger
}

// NewScheduleNotifier creates a notifier. publisher may be nil.
func NewScheduleNotifier(c cache.Cache, publisher Publisher, logger zerolog.Logger) *ScheduleNotifier {
	if c == nil {
		c = cache.Noop{}
	}
	return &ScheduleNotifier{cache: c, publisher: publisher, logger: logger}
}

// ScheduleChanged implements ChangeNotifier
func (n *ScheduleNotifier) ScheduleChanged(ctx context.Context, change ScheduleChange) {
	if err := n.cache.Invalidate(ctx); err != nil {
		n.logger.Warn().Err(err).Int64("termID", change.TermID).Msg("Failed to invalidate schedule cache")
	}
	if n.publisher == nil {
		return
	}

	topics := []string{websocket.TopicMaster}
	if change.TeacherID != 0 {
		topics = append(topics, websocket.TeacherTopic(change.TeacherID))
	}
	for _, id := range change.CourseIDs {
		topics = append(topics, websocket.CourseTopic(id))
	}
	for _, id := range change.StudentIDs {
		topics = append(topics, websocket.StudentTopic(id))
	}

	n.publisher.Publish(&websocket.Event{
		Type:      websocket.EventScheduleChanged,
		Topics:    topics,
		TermID:    change.TermID,
		TeacherID: change.TeacherID,
		CourseIDs: change.CourseIDs,
	})
}

// nopNotifier ignores changes
type nopNotifier struct{}

func (nopNotifier) ScheduleChanged(context.Context, ScheduleChange) {}

// uniqueIDs returns ids without zeros or repeats, in first-seen order
func uniqueIDs(ids ...[]int64) []int64 {
	seen := make(map[int64]bool)
	var out []int64
	for _, list := range ids {
		for _, id := range list {
			if id == 0 || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
