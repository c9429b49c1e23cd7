package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/interntrack/backend/models"
	"github.com/interntrack/backend/utils"
)

func init() {
	// Config loading requires a JWT secret even though ingestion never signs tokens.
	_ = os.Setenv("JWT_SECRET", "test-secret")
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Internship{}))
	return db
}

const sampleFeed = `[
  {
    "id": "11111111-1111-4111-8111-111111111111",
    "company_name": "Stripe",
    "title": "Software Engineering Intern",
    "locations": ["San Francisco, CA", "Remote"],
    "url": "https://stripe.com/jobs/1",
    "date_posted": 1756700000,
    "source": "Simplify",
    "terms": ["Summer 2026"],
    "active": true,
    "is_visible": true
  },
  {
    "id": "22222222-2222-4222-8222-222222222222",
    "company_name": "Datadog",
    "title": "Backend Intern",
    "locations": ["New York, NY"],
    "url": "https://datadoghq.com/jobs/2",
    "date_posted": 1756800000,
    "source": "Simplify",
    "active": false,
    "is_visible": true
  },
  {
    "id": "not-a-uuid",
    "company_name": "Ghost Corp",
    "title": "Phantom Intern",
    "locations": [],
    "url": "https://example.com",
    "date_posted": 1756900000,
    "source": "Simplify"
  },
  {
    "id": "33333333-3333-4333-8333-333333333333",
    "company_name": "",
    "title": "Nameless Intern",
    "locations": [],
    "url": "https://example.com",
    "date_posted": 1756900000,
    "source": "Simplify"
  }
]`

func feedServer(t *testing.T, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchOnceUpsertsValidListings(t *testing.T) {
	db := setupTestDB(t)
	srv := feedServer(t, sampleFeed)

	require.NoError(t, FetchOnce(context.Background(), db, srv.URL))

	var rows []models.Internship
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2, "invalid uuid and empty company entries are skipped")

	assert.Equal(t, "Stripe", rows[0].Company)
	assert.Equal(t, "Software Engineering Intern", rows[0].Role)
	assert.Equal(t, "San Francisco, CA, Remote", rows[0].Location)
	assert.Equal(t, "1756700000", rows[0].DatePosted)
	assert.Equal(t, "Summer 2026", rows[0].Season)
	assert.True(t, rows[0].Active)
	assert.True(t, rows[0].IsVisible)

	assert.Equal(t, "Datadog", rows[1].Company)
	assert.False(t, rows[1].Active)
}

func TestFetchOnceIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	srv := feedServer(t, sampleFeed)

	require.NoError(t, FetchOnce(context.Background(), db, srv.URL))
	require.NoError(t, FetchOnce(context.Background(), db, srv.URL))

	var count int64
	require.NoError(t, db.Model(&models.Internship{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "re-fetching the same feed must not duplicate rows")
}

func TestFetchOnceUpdatesChangedFields(t *testing.T) {
	db := setupTestDB(t)

	first := feedServer(t, `[{
	  "id": "11111111-1111-4111-8111-111111111111",
	  "company_name": "Stripe",
	  "title": "Software Engineering Intern",
	  "locations": ["SF"],
	  "url": "https://stripe.com/jobs/1",
	  "date_posted": 1756700000,
	  "source": "Simplify",
	  "active": true
	}]`)
	require.NoError(t, FetchOnce(context.Background(), db, first.URL))

	second := feedServer(t, `[{
	  "id": "11111111-1111-4111-8111-111111111111",
	  "company_name": "Stripe",
	  "title": "Software Engineering Intern",
	  "locations": ["SF"],
	  "url": "https://stripe.com/jobs/1",
	  "date_posted": 1756700000,
	  "source": "Simplify",
	  "active": false,
	  "is_visible": false
	}]`)
	require.NoError(t, FetchOnce(context.Background(), db, second.URL))

	var row models.Internship
	require.NoError(t, db.First(&row, "id = ?", "11111111-1111-4111-8111-111111111111").Error)
	assert.False(t, row.Active)
	assert.False(t, row.IsVisible)
}

func TestFetchOnceBadStatus(t *testing.T) {
	db := setupTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	err := FetchOnce(context.Background(), db, srv.URL)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Internship{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFetchOnceDateUpdatedFallback(t *testing.T) {
	db := setupTestDB(t)
	srv := feedServer(t, `[{
	  "id": "44444444-4444-4444-8444-444444444444",
	  "company_name": "Figma",
	  "title": "Design Infra Intern",
	  "locations": ["Remote"],
	  "url": "https://figma.com/jobs/4",
	  "date_updated": 1756950000,
	  "source": "Simplify"
	}]`)

	require.NoError(t, FetchOnce(context.Background(), db, srv.URL))

	var row models.Internship
	require.NoError(t, db.First(&row, "id = ?", "44444444-4444-4444-8444-444444444444").Error)
	assert.Equal(t, "1756950000", row.DatePosted)
}
