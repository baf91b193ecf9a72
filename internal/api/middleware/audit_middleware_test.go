package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newAuditRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuditMiddleware())
	return r
}

func TestAuditCapturesJSONBody(t *testing.T) {
	r := newAuditRouter()

	var captured *responseBodyWriter
	r.GET("/echo", func(c *gin.Context) {
		captured = c.Writer.(*responseBodyWriter)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, captured.body.String(), `"ok":true`)
}

func TestAuditSkipsEventStreamBody(t *testing.T) {
	r := newAuditRouter()

	var captured *responseBodyWriter
	r.GET("/stream", func(c *gin.Context) {
		captured = c.Writer.(*responseBodyWriter)
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		for i := 0; i < 3; i++ {
			c.Writer.Write([]byte("data: chunk\n\n"))
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	assert.Contains(t, w.Body.String(), "data: chunk")
	assert.Zero(t, captured.body.Len())
}

func TestAuditTruncatesOversizedBody(t *testing.T) {
	r := newAuditRouter()

	var captured *responseBodyWriter
	r.GET("/big", func(c *gin.Context) {
		captured = c.Writer.(*responseBodyWriter)
		chunk := strings.Repeat("a", 4096)
		for i := 0; i < 8; i++ {
			c.Writer.Write([]byte(chunk))
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/big", nil))

	// 客户端收到完整响应，审计留存被截断
	assert.Equal(t, 8*4096, w.Body.Len())
	assert.Equal(t, auditBodyLimit, captured.body.Len())
}
