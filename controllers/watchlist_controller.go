package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/interntrack/backend/engine"
	"github.com/interntrack/backend/models"
	"github.com/interntrack/backend/utils"
)

// WatchlistController manages a user's tracked companies and the read paths
// built on the matcher (dashboard matches, notification polling).
type WatchlistController struct {
	db     *gorm.DB
	engine *engine.Engine
}

// NewWatchlistController creates a new controller instance.
func NewWatchlistController(db *gorm.DB) *WatchlistController {
	return &WatchlistController{db: db, engine: engine.New(db)}
}

// defaultNotificationLimit caps the polling endpoint when no limit is given.
const defaultNotificationLimit = 10

// Add puts a company name on the user's watchlist.
func (w *WatchlistController) Add(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		CompanyName string `json:"company_name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	name := utils.Sanitize(strings.TrimSpace(req.CompanyName))
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "company name cannot be empty")
		return
	}

	item := models.WatchlistItem{UserID: userID, CompanyName: name}
	if err := w.db.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40940, "company already on watchlist")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to add watchlist item")
		return
	}

	utils.Success(ctx, gin.H{"item": item})
}

// Remove deletes a watchlist item owned by the user.
func (w *WatchlistController) Remove(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid watchlist item id")
		return
	}

	res := w.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.WatchlistItem{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to remove watchlist item")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40440, "watchlist item not found")
		return
	}

	utils.Success(ctx, gin.H{"message": "removed"})
}

// List returns the user's watchlist in insertion order.
func (w *WatchlistController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var items []models.WatchlistItem
	if err := w.db.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to list watchlist")
		return
	}

	utils.Success(ctx, gin.H{"items": items, "total": len(items)})
}

// Matches returns postings matching the watchlist plus per-company counts.
// ?active_only=true narrows to active postings.
func (w *WatchlistController) Matches(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	activeOnly := strings.EqualFold(ctx.DefaultQuery("active_only", "true"), "true")

	res, err := w.engine.MatchedInternships(userID, activeOnly)
	if err != nil {
		respondEngineError(ctx, err, "failed to match internships")
		return
	}

	utils.Success(ctx, gin.H{"matched": res.Matched, "stats": res.Stats})
}

// Notifications is the lightweight polling endpoint: the newest active
// matched postings, capped by ?limit (default 10).
func (w *WatchlistController) Notifications(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	limit := defaultNotificationLimit
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	items, err := w.engine.Notifications(userID, limit)
	if err != nil {
		respondEngineError(ctx, err, "failed to load notifications")
		return
	}

	utils.Success(ctx, gin.H{"items": items, "count": len(items)})
}
