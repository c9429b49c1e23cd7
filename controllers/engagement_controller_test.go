package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/interntrack/backend/engine"
	"github.com/interntrack/backend/middleware"
	"github.com/interntrack/backend/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Internship{},
		&models.WatchlistItem{},
		&models.CheckIn{},
		&models.ApplicationLog{},
		&models.Badge{},
		&models.PointEvent{},
	)
	require.NoError(t, err)
	return db
}

// testContext builds a gin context carrying an authenticated user, the way
// the auth middleware would.
func testContext(t *testing.T, userID uint, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	ctx.Set(middleware.ContextUserIDKey, userID)
	return ctx, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLogApplicationKeepsAmpersandNames(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Username: "dana"}
	require.NoError(t, db.Create(&user).Error)

	ec := NewEngagementController(db)
	ctx, rec := testContext(t, user.ID, http.MethodPost, "/api/v1/applications", gin.H{
		"company": "AT&T",
		"role":    "Software Engineering Intern",
	})
	ec.LogApplication(ctx)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var row models.ApplicationLog
	require.NoError(t, db.First(&row, "user_id = ?", user.ID).Error)
	assert.Equal(t, "AT&T", row.Company, "company must be stored as typed, not entity-escaped")
}

func TestCheckInStatusCountFailure(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Username: "dana"}
	require.NoError(t, db.Create(&user).Error)

	// Break the check_ins table so the count fails; the endpoint must not
	// report checked_in_today=false on a storage error.
	require.NoError(t, db.Migrator().DropTable(&models.CheckIn{}))

	ec := NewEngagementController(db)
	ctx, rec := testContext(t, user.ID, http.MethodGet, "/api/v1/checkin/status", nil)
	ec.CheckInStatus(ctx)

	assert.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())
}

func TestCheckInStatusReflectsTodaysCheckIn(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Username: "dana"}
	require.NoError(t, db.Create(&user).Error)

	ec := NewEngagementController(db)

	ctx, rec := testContext(t, user.ID, http.MethodGet, "/api/v1/checkin/status", nil)
	ec.CheckInStatus(ctx)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["checked_in_today"])

	ctx, rec = testContext(t, user.ID, http.MethodPost, "/api/v1/checkin", nil)
	ec.CheckIn(ctx)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ctx, rec = testContext(t, user.ID, http.MethodGet, "/api/v1/checkin/status", nil)
	ec.CheckInStatus(ctx)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, true, data["checked_in_today"])
}

func TestWatchlistAmpersandNameMatchesFeed(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{Username: "dana"}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, db.Create(&models.Internship{
		ID:         "55555555-5555-4555-8555-555555555555",
		Company:    "AT&T",
		Role:       "Network Engineering Intern",
		DatePosted: "1756700000",
		Active:     true,
		IsVisible:  true,
	}).Error)

	wc := NewWatchlistController(db)
	ctx, rec := testContext(t, user.ID, http.MethodPost, "/api/v1/watchlist", gin.H{
		"company_name": "AT&T",
	})
	wc.Add(ctx)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var item models.WatchlistItem
	require.NoError(t, db.First(&item, "user_id = ?", user.ID).Error)
	assert.Equal(t, "AT&T", item.CompanyName)

	res, err := engine.New(db).MatchedInternships(user.ID, true)
	require.NoError(t, err)
	require.Len(t, res.Matched, 1)
	assert.Equal(t, "AT&T", res.Matched[0].Company)
}
