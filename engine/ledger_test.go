package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/interntrack/backend/models"
)

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

func newTestUser(t *testing.T, db *gorm.DB, points int) models.User {
	user := models.User{Username: "dana", Points: points}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestRecordCheckInSameDayDedup(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	morning := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

	res, err := e.RecordCheckIn(user.ID, morning, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Points)
	assert.Equal(t, 1, res.Streak)

	_, err = e.RecordCheckIn(user.ID, evening, "")
	assert.ErrorIs(t, err, ErrDuplicateEvent)

	var rows int64
	require.NoError(t, db.Model(&models.CheckIn{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows, "exactly one check-in row for the day")

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 2, fresh.Points, "rejected duplicate must not change points")
}

func TestRecordCheckInNextUTCDay(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	day1 := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC)

	_, err := e.RecordCheckIn(user.ID, day1, "")
	require.NoError(t, err)

	res, err := e.RecordCheckIn(user.ID, day2, "")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Points)
	assert.Equal(t, 2, res.Streak, "consecutive days extend the streak")
}

func TestRecordCheckInUTCWindowNotLocal(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	// 23:00-05:00 in UTC+8 are the same local day but different UTC days.
	loc := time.FixedZone("UTC+8", 8*3600)
	first := time.Date(2026, 3, 14, 7, 0, 0, 0, loc)  // 2026-03-13 23:00 UTC
	second := time.Date(2026, 3, 14, 13, 0, 0, 0, loc) // 2026-03-14 05:00 UTC

	_, err := e.RecordCheckIn(user.ID, first, "")
	require.NoError(t, err)
	_, err = e.RecordCheckIn(user.ID, second, "")
	assert.NoError(t, err, "different UTC days must both be accepted")
}

func TestRecordCheckInStreakResets(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	_, err := e.RecordCheckIn(user.ID, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	// skipped the 11th
	res, err := e.RecordCheckIn(user.ID, time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak)
}

func TestCheckInCrossesBadgeThreshold(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 8)

	res, err := e.RecordCheckIn(user.ID, time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Points)
	require.Len(t, res.NewBadges, 1)
	assert.Equal(t, "Getting Started", res.NewBadges[0].Name)
	assert.Equal(t, 10, res.NewBadges[0].PointsRequired)

	// duplicate same-day submit awards nothing further
	_, err = e.RecordCheckIn(user.ID, time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC), "")
	assert.ErrorIs(t, err, ErrDuplicateEvent)

	var badges int64
	require.NoError(t, db.Model(&models.Badge{}).Where("user_id = ?", user.ID).Count(&badges).Error)
	assert.EqualValues(t, 1, badges, "threshold badge awarded exactly once")
}

func TestRecordCheckInUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	_, err := e.RecordCheckIn(999, time.Now(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordCheckInWritesLedgerEvent(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	_, err := e.RecordCheckIn(user.ID, time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC), "feeling good")
	require.NoError(t, err)

	var events []models.PointEvent
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventCheckIn, events[0].Kind)
	assert.Equal(t, 2, events[0].Delta)
	assert.NotZero(t, events[0].RefID)
}

func TestRecordApplicationDedup(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	res, err := e.RecordApplication(user.ID, "Google LLC", "SWE Intern", "")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Points)
	assert.NotZero(t, res.LogID)

	_, err = e.RecordApplication(user.ID, "Google LLC", "SWE Intern", "")
	assert.ErrorIs(t, err, ErrDuplicateEvent)

	var rows int64
	require.NoError(t, db.Model(&models.ApplicationLog{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 5, fresh.Points)
}

func TestRecordApplicationDistinctRoles(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	_, err := e.RecordApplication(user.ID, "Google LLC", "SWE Intern", "")
	require.NoError(t, err)
	res, err := e.RecordApplication(user.ID, "Google LLC", "PM Intern", "")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Points)
}

func TestRecordApplicationValidation(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	_, err := e.RecordApplication(user.ID, "  ", "SWE Intern", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = e.RecordApplication(user.ID, "Google", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplicationCrossing95To105(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 95)

	// pre-earn everything 95 points unlock
	pre, err := e.Award(user.ID)
	require.NoError(t, err)
	require.Len(t, pre, 9)

	res, err := e.RecordApplication(user.ID, "Stripe", "Backend Intern", "")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Points)
	require.Len(t, res.NewBadges, 1, "only the 100-point badge is new")
	assert.Equal(t, 100, res.NewBadges[0].PointsRequired)
}

func TestAwardIdempotent(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 35)

	first, err := e.Award(user.ID)
	require.NoError(t, err)
	assert.Len(t, first, 3)

	second, err := e.Award(user.ID)
	require.NoError(t, err)
	assert.Empty(t, second, "no intervening point change means no new badges")
}

func TestAwardUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	_, err := e.Award(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgress(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 25)

	_, err := e.Award(user.ID)
	require.NoError(t, err)

	prog, err := e.Progress(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, prog.Points)
	require.Len(t, prog.Earned, 2)
	assert.Equal(t, 10, prog.Earned[0].PointsRequired)
	assert.Equal(t, 20, prog.Earned[1].PointsRequired)
	require.Len(t, prog.NextThresholds, 3)
	assert.Equal(t, 30, prog.NextThresholds[0].PointsRequired)
}

func TestMatchedInternshipsReadPath(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	require.NoError(t, db.Create(&models.WatchlistItem{UserID: user.ID, CompanyName: "Google"}).Error)
	require.NoError(t, db.Create(&[]models.Internship{
		{ID: "11111111-1111-1111-1111-111111111111", Company: "Google LLC", Role: "SWE Intern", Active: true, IsVisible: true, DatePosted: "1700000200"},
		{ID: "22222222-2222-2222-2222-222222222222", Company: "Alphabet", Role: "Data Intern", Active: true, IsVisible: true, DatePosted: "1700000100"},
		{ID: "33333333-3333-3333-3333-333333333333", Company: "Google Cloud", Role: "SRE Intern", Active: true, IsVisible: false, DatePosted: "1700000300"},
	}).Error)

	res, err := e.MatchedInternships(user.ID, true)
	require.NoError(t, err)
	require.Len(t, res.Matched, 1, "hidden postings are excluded")
	assert.Equal(t, "Google LLC", res.Matched[0].Company)
	require.Len(t, res.Stats, 1)
	assert.Equal(t, CompanyStat{Company: "Google", Count: 1}, res.Stats[0])
}

func TestNotificationsBounded(t *testing.T) {
	db := setupTestDB(t)
	e := New(db)
	user := newTestUser(t, db, 0)

	require.NoError(t, db.Create(&models.WatchlistItem{UserID: user.ID, CompanyName: "acme"}).Error)
	for i := 0; i < 12; i++ {
		in := models.Internship{
			ID:         uuidLike(i),
			Company:    "Acme Corp",
			Role:       "Intern",
			Active:     i%2 == 0,
			IsVisible:  true,
			DatePosted: "1700000000",
		}
		require.NoError(t, db.Create(&in).Error)
	}

	got, err := e.Notifications(user.ID, 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	for _, in := range got {
		assert.True(t, in.Active, "notifications only surface active postings")
	}
}

func uuidLike(i int) string {
	const hex = "0123456789abcdef"
	c := hex[i%len(hex)]
	s := make([]byte, 0, 36)
	for _, r := range "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" {
		if r == '-' {
			s = append(s, '-')
		} else {
			s = append(s, c)
		}
	}
	return string(s)
}
