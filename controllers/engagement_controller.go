package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/interntrack/backend/engine"
	"github.com/interntrack/backend/middleware"
	"github.com/interntrack/backend/models"
	"github.com/interntrack/backend/utils"
)

// EngagementController exposes the points ledger: daily check-ins,
// application logging, and badge progress.
type EngagementController struct {
	db     *gorm.DB
	engine *engine.Engine
}

// NewEngagementController creates a new controller instance.
func NewEngagementController(db *gorm.DB) *EngagementController {
	return &EngagementController{db: db, engine: engine.New(db)}
}

func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CheckIn records a daily check-in and returns points, streak, and any newly
// earned badges. A repeated check-in within the same UTC day answers 409.
func (e *EngagementController) CheckIn(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	// body is optional
	_ = ctx.ShouldBindJSON(&req)

	note := utils.Sanitize(strings.TrimSpace(req.Note))
	if len([]rune(note)) > 255 {
		note = string([]rune(note)[:255])
	}

	res, err := e.engine.RecordCheckIn(userID, time.Now(), note)
	if err != nil {
		respondEngineError(ctx, err, "failed to record check-in")
		return
	}

	utils.Success(ctx, gin.H{
		"message":        "check-in recorded",
		"points":         res.Points,
		"points_awarded": engine.CheckInPoints,
		"streak":         res.Streak,
		"new_badges":     badgeList(res.NewBadges),
	})
}

// CheckInStatus returns the user's point total, streak and last check-in time.
func (e *EngagementController) CheckInStatus(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := e.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load user")
		return
	}

	// checked_in_today drives whether the client offers the check-in button,
	// so a count failure must not degrade to "not checked in yet".
	today := time.Now().UTC().Format("2006-01-02")
	var count int64
	if err := e.db.Model(&models.CheckIn{}).
		Where("user_id = ? AND checkin_date = ?", userID, today).
		Count(&count).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load check-in status")
		return
	}

	utils.Success(ctx, gin.H{
		"points":           user.Points,
		"consecutive_days": user.ConsecutiveDays,
		"last_checkin_at":  user.LastCheckinAt,
		"checked_in_today": count > 0,
	})
}

// LogApplication records an application to a company+role and awards points.
// The same (company, role) pair cannot be logged twice.
func (e *EngagementController) LogApplication(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Company string `json:"company" binding:"required"`
		Role    string `json:"role" binding:"required"`
		Status  string `json:"status"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	company := utils.Sanitize(strings.TrimSpace(req.Company))
	role := utils.Sanitize(strings.TrimSpace(req.Role))
	status := strings.TrimSpace(req.Status)

	res, err := e.engine.RecordApplication(userID, company, role, status)
	if err != nil {
		respondEngineError(ctx, err, "failed to log application")
		return
	}

	utils.Success(ctx, gin.H{
		"log_id":         res.LogID,
		"points":         res.Points,
		"points_awarded": engine.ApplicationPoints,
		"new_badges":     badgeList(res.NewBadges),
	})
}

// ListApplications returns the user's application history, newest first.
func (e *EngagementController) ListApplications(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var logs []models.ApplicationLog
	if err := e.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to list applications")
		return
	}

	utils.Success(ctx, gin.H{"items": logs, "total": len(logs)})
}

// BadgeProgress returns earned badges and the next thresholds to chase.
func (e *EngagementController) BadgeProgress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	prog, err := e.engine.Progress(userID)
	if err != nil {
		respondEngineError(ctx, err, "failed to load badge progress")
		return
	}

	utils.Success(ctx, gin.H{
		"points":          prog.Points,
		"earned":          prog.Earned,
		"next_thresholds": prog.NextThresholds,
	})
}

// badgeList keeps the JSON shape stable: an empty array instead of null.
func badgeList(defs []engine.BadgeDef) []engine.BadgeDef {
	if defs == nil {
		return []engine.BadgeDef{}
	}
	return defs
}

// respondEngineError maps the engine's error taxonomy onto HTTP responses.
func respondEngineError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, engine.ErrDuplicateEvent):
		utils.Error(ctx, http.StatusConflict, 40930, "already recorded")
	case errors.Is(err, engine.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, "not found")
	case errors.Is(err, engine.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40025, err.Error())
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50030, fallback)
	}
}
