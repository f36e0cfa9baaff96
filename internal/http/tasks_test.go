package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
)

func TestTasksController_GetTaskStatus(t *testing.T) {
	queue := &fakeQueue{statuses: map[string]backlite.TaskStatus{
		"t-running": backlite.TaskStatusRunning,
		"t-done":    backlite.TaskStatusSuccess,
	}}
	env := newTestEnv(t, func(cfg *RouterConfig) { cfg.TaskQueue = queue })

	tests := []struct {
		id         string
		wantCode   int
		wantStatus string
	}{
		{"t-running", http.StatusOK, "running"},
		{"t-done", http.StatusOK, "success"},
		{"t-missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			w := env.get("/api/tasks/" + tt.id)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantStatus != "" {
				assert.Equal(t, TaskStatusResponse{ID: tt.id, Status: tt.wantStatus}, decode[TaskStatusResponse](t, w))
			}
		})
	}

	t.Run("hides queue errors", func(t *testing.T) {
		queue.err = errors.New("disk I/O error")
		defer func() { queue.err = nil }()

		w := env.get("/api/tasks/t-done")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "disk")
	})
}

func TestTasksRoutesAbsentWithoutQueue(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusNotFound, env.get("/api/tasks/anything").Code)
}
