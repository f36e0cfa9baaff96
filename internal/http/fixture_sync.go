package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/scheduler"
	"github.com/mrlokans/readinglist/internal/settingsstore"
)

// FixtureSyncController handles the scheduled fixture import settings.
type FixtureSyncController struct {
	settings  FixtureSyncSettings
	scheduler FixtureSyncRunner
}

// NewFixtureSyncController creates a new controller
func NewFixtureSyncController(settings FixtureSyncSettings, runner FixtureSyncRunner) *FixtureSyncController {
	return &FixtureSyncController{
		settings:  settings,
		scheduler: runner,
	}
}

// FixtureSyncResponse is the response for GET /api/sync/fixture
type FixtureSyncResponse struct {
	Config      settingsstore.FixtureSyncConfigInfo `json:"config"`
	Status      settingsstore.FixtureSyncStatus     `json:"status"`
	Description string                              `json:"description"`
	NextRun     *time.Time                          `json:"next_run,omitempty"`
	IsRunning   bool                                `json:"is_running"`
	IsSyncing   bool                                `json:"is_syncing"`
	Presets     []SchedulePreset                    `json:"presets"`
}

// SchedulePreset is a predefined schedule option
type SchedulePreset struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var schedulePresets = []SchedulePreset{
	{Label: "Every hour", Value: "0 * * * *"},
	{Label: "Every 6 hours", Value: "0 */6 * * *"},
	{Label: "Daily at 03:00", Value: settingsstore.DefaultFixtureSyncSchedule},
	{Label: "Weekly on Sunday", Value: "0 0 * * 0"},
}

func (fc *FixtureSyncController) response() FixtureSyncResponse {
	info := fc.settings.GetFixtureSyncConfigInfo()
	resp := FixtureSyncResponse{
		Config:      info,
		Status:      fc.settings.GetFixtureSyncStatus(),
		Description: settingsstore.GetCronDescription(info.Schedule),
		Presets:     schedulePresets,
	}
	if fc.scheduler != nil {
		resp.NextRun = fc.scheduler.GetNextRunTime()
		resp.IsRunning = fc.scheduler.IsRunning()
		resp.IsSyncing = fc.scheduler.IsSyncing()
	}
	return resp
}

// GetSettings handles GET /api/sync/fixture
func (fc *FixtureSyncController) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, fc.response())
}

// UpdateFixtureSyncRequest is the body of PUT /api/sync/fixture. Absent
// fields keep their current value.
type UpdateFixtureSyncRequest struct {
	Enabled  *bool   `json:"enabled"`
	URL      *string `json:"url"`
	Schedule *string `json:"schedule"`
	Mode     *string `json:"mode"`
}

// UpdateSettings handles PUT /api/sync/fixture
// Validates everything before saving anything, then reschedules.
func (fc *FixtureSyncController) UpdateSettings(c *gin.Context) {
	var req UpdateFixtureSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	if req.URL != nil {
		trimmed := strings.TrimSpace(*req.URL)
		req.URL = &trimmed
		if trimmed != "" {
			if err := validateFixtureURL(trimmed); err != nil {
				respondError(c, http.StatusBadRequest, CodeValidationFailed, err.Error())
				return
			}
		}
	}
	if req.Schedule != nil {
		if err := settingsstore.ValidateCronSchedule(*req.Schedule); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationFailed, "invalid cron schedule: "+err.Error())
			return
		}
	}

	var mode library.LoadMode
	if req.Mode != nil {
		var ok bool
		if mode, ok = library.ParseLoadMode(*req.Mode); !ok {
			respondError(c, http.StatusBadRequest, CodeValidationFailed, "mode must be merge or replace")
			return
		}
	}

	if req.URL != nil {
		if err := fc.settings.SetFixtureSyncURL(*req.URL); err != nil {
			respondInternalError(c, err, "save fixture sync url")
			return
		}
	}
	if req.Schedule != nil {
		if err := fc.settings.SetFixtureSyncSchedule(*req.Schedule); err != nil {
			respondInternalError(c, err, "save fixture sync schedule")
			return
		}
	}
	if req.Mode != nil {
		if err := fc.settings.SetFixtureSyncMode(mode); err != nil {
			respondInternalError(c, err, "save fixture sync mode")
			return
		}
	}
	if req.Enabled != nil {
		if err := fc.settings.SetFixtureSyncEnabled(*req.Enabled); err != nil {
			respondInternalError(c, err, "save fixture sync enabled")
			return
		}
	}

	if fc.scheduler != nil {
		if err := fc.scheduler.Reschedule(); err != nil {
			respondInternalError(c, err, "reschedule fixture sync")
			return
		}
	}

	c.JSON(http.StatusOK, fc.response())
}

// ResetSettings handles DELETE /api/sync/fixture
// Clears database overrides, reverting to env/defaults.
func (fc *FixtureSyncController) ResetSettings(c *gin.Context) {
	if err := fc.settings.ClearFixtureSyncSettings(); err != nil {
		respondInternalError(c, err, "reset fixture sync settings")
		return
	}
	if fc.scheduler != nil {
		_ = fc.scheduler.Reschedule()
	}
	c.JSON(http.StatusOK, fc.response())
}

// SyncNow handles POST /api/sync/fixture/run
func (fc *FixtureSyncController) SyncNow(c *gin.Context) {
	if fc.scheduler == nil {
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, "scheduler not available")
		return
	}

	if fc.settings.GetFixtureSyncConfig().URL == "" {
		respondBadRequest(c, "fixture URL not configured")
		return
	}

	if err := fc.scheduler.RunNow(); err != nil {
		if errors.Is(err, scheduler.ErrSyncInProgress) {
			respondError(c, http.StatusConflict, CodeConflict, err.Error())
			return
		}
		respondInternalError(c, err, "start fixture sync")
		return
	}

	respondAccepted(c, "sync started in background", nil)
}
