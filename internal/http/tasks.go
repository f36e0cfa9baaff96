package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/readinglist/internal/tasks"
)

// TasksController handles task queue status endpoints.
type TasksController struct {
	queue FixtureTaskQueue
}

// NewTasksController creates a new TasksController.
func NewTasksController(queue FixtureTaskQueue) *TasksController {
	return &TasksController{queue: queue}
}

// TaskStatusResponse is the status of one queued task.
type TaskStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// GetTaskStatus handles GET /api/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, TaskStatusResponse{
		ID:     taskID,
		Status: tasks.StatusName(status),
	})
}
