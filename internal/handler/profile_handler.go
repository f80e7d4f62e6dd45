package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jengzang/activity-ranks/internal/activity"
	"github.com/jengzang/activity-ranks/internal/models"
	"github.com/jengzang/activity-ranks/internal/profile"
	"github.com/jengzang/activity-ranks/internal/ranks"
	"github.com/jengzang/activity-ranks/internal/service"
	"github.com/jengzang/activity-ranks/pkg/response"
)

// ProfileHandler handles HTTP requests for profiles, ranks and the
// leaderboard
type ProfileHandler struct {
	profileService *service.ProfileService
	maxUpload      int64
}

// NewProfileHandler creates a new profile handler. maxUpload caps the
// request body of an upload in bytes.
func NewProfileHandler(profileService *service.ProfileService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		maxUpload:      maxUpload,
	}
}

// Upload handles POST /api/v1/profiles/:username/upload
func (h *ProfileHandler) Upload(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.TooLarge(c, "File too large")
			return
		}
		response.BadRequest(c, "No file part")
		return
	}
	if file.Filename == "" {
		response.BadRequest(c, "No selected file")
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".csv") {
		response.BadRequest(c, "Only CSV files are allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Failed to open file")
		return
	}
	defer f.Close()

	snap, err := h.profileService.Upload(c.Request.Context(), c.Param("username"), f)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, models.UploadSummary{
		Username:      snap.Profile.Username,
		UploadID:      snap.Profile.UploadID,
		ActivityCount: snap.Profile.ActivityCount,
		RankInfo:      snap.RankInfo,
		Stats:         snap.Profile.Stats,
	})
}

// GetDashboard handles GET /api/v1/profiles/:username
func (h *ProfileHandler) GetDashboard(c *gin.Context) {
	var filter models.ActivityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	dash, err := h.profileService.Dashboard(c.Request.Context(), c.Param("username"), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, dash)
}

// GetLeaderboard handles GET /api/v1/leaderboard
func (h *ProfileHandler) GetLeaderboard(c *gin.Context) {
	board, err := h.profileService.Leaderboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, board)
}

// GetRanks handles GET /api/v1/ranks
func (h *ProfileHandler) GetRanks(c *gin.Context) {
	response.Success(c, ranks.Ladder())
}

// MigrateAchievements handles POST /api/v1/admin/migrate-achievements
func (h *ProfileHandler) MigrateAchievements(c *gin.Context) {
	n, err := h.profileService.MigrateAchievements(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, gin.H{"rewritten": n})
}

// fail maps service errors onto response codes
func (h *ProfileHandler) fail(c *gin.Context, err error) {
	var verr *activity.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithData(c, http.StatusBadRequest, verr.Error(), gin.H{"column": verr.Column})
	case errors.Is(err, profile.ErrEmptyUsername), errors.Is(err, service.ErrInvalidFile):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "User not found")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		_ = c.Error(err)
		response.InternalError(c, "Internal server error")
	}
}
