package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
)

func record(t *testing.T, fn func(c *gin.Context)) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return w.Code, body
}

func TestSuccess(t *testing.T) {
	code, body := record(t, func(c *gin.Context) { Success(c, gin.H{"n": 1}) })
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	want := map[string]interface{}{"code": 0.0, "message": "success", "data": map[string]interface{}{"n": 1.0}}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   func(c *gin.Context)
		code int
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "m") }, http.StatusBadRequest},
		{"not found", func(c *gin.Context) { NotFound(c, "m") }, http.StatusNotFound},
		{"too large", func(c *gin.Context) { TooLarge(c, "m") }, http.StatusRequestEntityTooLarge},
		{"internal", func(c *gin.Context) { InternalError(c, "m") }, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := record(t, tt.fn)
			if code != tt.code || body["code"] != float64(tt.code) || body["message"] != "m" {
				t.Fatalf("unexpected response %d %v", code, body)
			}
			if _, ok := body["data"]; ok {
				t.Fatalf("error without details must omit data: %v", body)
			}
		})
	}
}

func TestErrorWithData(t *testing.T) {
	code, body := record(t, func(c *gin.Context) {
		ErrorWithData(c, http.StatusBadRequest, "Missing required column: Calories", gin.H{"column": "Calories"})
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if diff := cmp.Diff(map[string]interface{}{"column": "Calories"}, body["data"]); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}
