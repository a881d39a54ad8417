package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/medreza/giftcard-validation-service/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.POST("/admin", AdminAuth(auth.NewPlaintextGuard("admin", "secret")), func(c *gin.Context) {
		// the body must still be readable after the guard consumed it
		var body struct {
			Code string `json:"code"`
		}
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(AdminUserKey), "code": body.Code})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})
	return router
}

func post(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/admin", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuth_Allows(t *testing.T) {
	w := post(setupTestRouter(), `{"username":"admin","password":"secret","code":"ABC"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp["user"])
	assert.Equal(t, "ABC", resp["code"])
}

func TestAdminAuth_Rejects(t *testing.T) {
	router := setupTestRouter()
	for name, body := range map[string]string{
		"wrong password": `{"username":"admin","password":"nope"}`,
		"no credentials": `{"code":"ABC"}`,
		"empty body":     ``,
		"malformed":      `{"username":`,
	} {
		t.Run(name, func(t *testing.T) {
			w := post(router, body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, "Invalid credentials", resp["message"])
		})
	}
}

func TestRequestID(t *testing.T) {
	router := setupTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-42", w.Body.String())
}
