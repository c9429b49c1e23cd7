package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/interntrack/backend/models"
	"github.com/interntrack/backend/utils"
)

// StatsController provides aggregate statistics for the dashboard.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate counts. Individual failures degrade to zero
// instead of failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var internshipCount int64
	var applicationCount int64
	var checkinsToday int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}

	if err := s.db.Model(&models.Internship{}).
		Where("is_visible = ? AND active = ?", true, true).
		Count(&internshipCount).Error; err != nil {
		internshipCount = 0
	}

	if err := s.db.Model(&models.ApplicationLog{}).Count(&applicationCount).Error; err != nil {
		applicationCount = 0
	}

	// String date equality avoids timezone/type mismatches on the day column.
	today := time.Now().UTC().Format("2006-01-02")
	if err := s.db.Model(&models.CheckIn{}).
		Where("checkin_date = ?", today).
		Count(&checkinsToday).Error; err != nil {
		checkinsToday = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":        userCount,
		"internship_count":  internshipCount,
		"application_count": applicationCount,
		"checkins_today":    checkinsToday,
	})
}
