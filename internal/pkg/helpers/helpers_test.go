package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, ParseDuration("90s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Params = gin.Params{{Key: "courseId", Value: "12"}}
	id, err := ParseIDParam(c, "courseId")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		c.Params = gin.Params{{Key: "courseId", Value: raw}}
		_, err := ParseIDParam(c, "courseId")
		assert.ErrorIs(t, err, apperrors.ErrBadRequest, raw)
	}
}

func TestParseOptionalIDQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Request = httptest.NewRequest("GET", "/courses", nil)
	id, err := ParseOptionalIDQuery(c, "teacherId")
	require.NoError(t, err)
	assert.Nil(t, id)

	c.Request = httptest.NewRequest("GET", "/courses?teacherId=4", nil)
	id, err = ParseOptionalIDQuery(c, "teacherId")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(4), *id)

	c.Request = httptest.NewRequest("GET", "/courses?teacherId=x", nil)
	_, err = ParseOptionalIDQuery(c, "teacherId")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
