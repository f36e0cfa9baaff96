package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/readinglist/internal/forms"
	"github.com/mrlokans/readinglist/internal/library"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseLimitQuery(t *testing.T) {
	tests := []struct {
		query    string
		want     int
		wantOK   bool
		wantCode int
	}{
		{"", 50, true, http.StatusOK},
		{"?limit=10", 10, true, http.StatusOK},
		{"?limit=0", 0, true, http.StatusOK},
		{"?limit=-3", 0, false, http.StatusBadRequest},
		{"?limit=abc", 0, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/"+tt.query, nil)

			got, ok := parseLimitQuery(c, 50)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestParseModeParam(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/?mode=Replace", nil)

	mode, ok := parseModeParam(c)

	assert.True(t, ok)
	assert.Equal(t, library.LoadModeReplace, mode)
}

func TestRespondCommandError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", fmt.Errorf("%w: abc", library.ErrBookNotFound), http.StatusNotFound, CodeNotFound},
		{"batch", &library.BatchError{Problems: []library.BatchProblem{{Index: 0, Reason: "empty id"}}}, http.StatusBadRequest, "empty id"},
		{"validation", &forms.ValidationError{Fields: map[string]string{"title": "is required"}}, http.StatusBadRequest, CodeValidationFailed},
		{"other", errors.New("secret detail"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondCommandError(c, tt.err, "test")

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "secret detail")
		})
	}
}

func TestWantsJSON(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	assert.False(t, wantsJSON(c))

	c.Request.Header.Set("Accept", "application/json, text/plain")
	assert.True(t, wantsJSON(c))
}
