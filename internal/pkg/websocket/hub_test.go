package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func TestParseTopics(t *testing.T) {
	got, err := ParseTopics("teacher:3, master,course:9", 1, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"teacher:3": true, "master": true, "course:9": true}, got)

	_, err = ParseTopics("", 1, models.RoleAdmin)
	assert.Error(t, err)
	_, err = ParseTopics("room:1", 1, models.RoleAdmin)
	assert.Error(t, err)
	_, err = ParseTopics("teacher:abc", 1, models.RoleAdmin)
	assert.Error(t, err)

	_, err = ParseTopics("student:7", 7, models.RoleStudent)
	assert.NoError(t, err)
	_, err = ParseTopics("student:8", 7, models.RoleStudent)
	assert.Error(t, err)
	_, err = ParseTopics("master", 7, models.RoleStudent)
	assert.Error(t, err)
}

func TestPublishAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	for i := 0; i < 100; i++ {
		hub.Publish(&Event{Type: EventScheduleChanged})
	}
}

func TestSubscriberReceivesTopicEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)
	handler := NewHandler(hub, zerolog.Nop())

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("userID", int64(1))
		c.Set("roleType", string(models.RoleAdmin))
		handler.HandleConnection(c)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?topics=teacher:5"
	conn, resp, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.GetClientsCount("teacher:5") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(&Event{Type: EventScheduleChanged, Topics: []string{TeacherTopic(5), TopicMaster}, TermID: 2, TeacherID: 5})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, int64(5), got.TeacherID)
	assert.Equal(t, int64(2), got.TermID)
}

func TestRejectsInvalidSubscription(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(startHub(t), zerolog.Nop())

	r := gin.New()
	r.GET("/ws", handler.HandleConnection)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?topics=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
