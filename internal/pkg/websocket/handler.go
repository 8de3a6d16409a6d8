package websocket

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/models/dto"
)

// Handler upgrades schedule subscription requests
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// ParseTopics validates a comma separated topic list. Students may only
// follow their own week.
func ParseTopics(raw string, userID int64, role models.RoleType) (map[string]bool, error) {
	topics := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if t != TopicMaster {
			kind, id, ok := strings.Cut(t, ":")
			if !ok {
				return nil, fmt.Errorf("invalid topic %q", t)
			}
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid topic %q", t)
			}
			switch kind {
			case "teacher", "course":
			case "student":
				if role == models.RoleStudent && n != userID {
					return nil, fmt.Errorf("topic %q is not yours", t)
				}
			default:
				return nil, fmt.Errorf("invalid topic %q", t)
			}
		}
		if role == models.RoleStudent && !strings.HasPrefix(t, "student:") {
			return nil, fmt.Errorf("topic %q is not available", t)
		}
		topics[t] = true
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("at least one topic is required")
	}
	return topics, nil
}

// HandleConnection subscribes the caller to the topics named by the
// "topics" query parameter, e.g. ?topics=teacher:3,master
func (h *Handler) HandleConnection(c *gin.Context) {
	userID := c.GetInt64("userID")
	role := models.RoleType(c.GetString("roleType"))

	topics, err := ParseTopics(c.Query("topics"), userID, role)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewFailureResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid subscription").WithDetails(err.Error()).WithField("topics")))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		topics: topics,
		logger: h.logger,
	}
	if !h.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
