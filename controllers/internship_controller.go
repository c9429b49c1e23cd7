package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interntrack/backend/models"
	"github.com/interntrack/backend/utils"
)

// InternshipController serves the read-only internship catalog. Rows are
// written only by the feed ingester.
type InternshipController struct {
	db *gorm.DB
}

// NewInternshipController creates a new controller instance.
func NewInternshipController(db *gorm.DB) *InternshipController {
	return &InternshipController{db: db}
}

// List returns paginated visible internships, newest first. Results are
// cached; the ingester invalidates the cache after each refresh.
func (i *InternshipController) List(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))
	activeOnly := strings.EqualFold(ctx.DefaultQuery("active_only", "true"), "true")

	// Cache plain listings; search terms would explode the key space.
	cacheKey := fmt.Sprintf("cache:internships:list:active=%t:page=%d:size=%d", activeOnly, page, pageSize)
	if search == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(200, "application/json", b)
			return
		}
	}

	query := i.db.Model(&models.Internship{}).Where("is_visible = ?", true)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if search != "" {
		query = query.Where("company LIKE ? OR role LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count internships")
		return
	}

	var items []models.Internship
	offset := (page - 1) * pageSize
	if err := query.Order("date_posted DESC").Offset(offset).Limit(pageSize).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list internships")
		return
	}

	payload := gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	if search == "" {
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	}
	utils.Success(ctx, payload)
}

// Get returns a single posting by its feed id.
func (i *InternshipController) Get(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("id"))
	if _, err := uuid.Parse(id); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid internship id")
		return
	}

	var item models.Internship
	if err := i.db.Where("id = ? AND is_visible = ?", id, true).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "internship not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load internship")
		return
	}

	utils.Success(ctx, gin.H{"internship": item})
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page, pageSize := 1, 20
	if v := strings.TrimSpace(pageStr); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(sizeStr); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}
