package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"sipsafe/internal/database"
	"sipsafe/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL and
// skips the test when it is not set.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Message{},
		&models.Reminder{},
	))

	database.DB = db
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Email:       email,
		DisplayName: "Test User",
		HashedPass:  "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func testContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func TestGetGroupsEmptyListSerializesAsArray(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, fmt.Sprintf("lonely-%s@example.com", uuid.NewString()))

	c, w := testContext(http.MethodGet, "")
	c.Set("user_id", user.ID)

	GetGroups(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestAddParticipantMatchesEmailCaseInsensitively(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, fmt.Sprintf("owner-%s@example.com", uuid.NewString()))
	invitee := createTestUser(t, db, fmt.Sprintf("invitee-%s@example.com", uuid.NewString()))

	group := models.Group{
		Name:           "Friday",
		CreatorID:      owner.ID,
		ParticipantIDs: []string{owner.ID},
	}
	require.NoError(t, db.Create(&group).Error)

	// The account was stored lowercased; the request arrives upper-cased
	body := fmt.Sprintf(`{"email":%q}`, strings.ToUpper(invitee.Email))
	c, w := testContext(http.MethodPost, body)
	c.Set("user_id", owner.ID)
	c.Params = gin.Params{{Key: "group_id", Value: group.ID}}

	AddParticipant(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Group
	require.NoError(t, db.First(&updated, "id = ?", group.ID).Error)
	assert.True(t, updated.HasParticipant(invitee.ID))
}

func TestRemoveLastParticipantDeletesGroupAndMessages(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, fmt.Sprintf("solo-%s@example.com", uuid.NewString()))

	group := models.Group{
		Name:           "Solo",
		CreatorID:      user.ID,
		ParticipantIDs: []string{user.ID},
	}
	require.NoError(t, db.Create(&group).Error)

	message := models.Message{GroupID: group.ID, SenderID: user.ID, Content: "last call"}
	require.NoError(t, db.Create(&message).Error)

	c, w := testContext(http.MethodDelete, "")
	c.Set("user_id", user.ID)
	c.Params = gin.Params{
		{Key: "group_id", Value: group.ID},
		{Key: "user_id", Value: user.ID},
	}

	RemoveParticipant(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var groupCount int64
	require.NoError(t, db.Model(&models.Group{}).Where("id = ?", group.ID).Count(&groupCount).Error)
	assert.Zero(t, groupCount)

	var messageCount int64
	require.NoError(t, db.Model(&models.Message{}).Where("group_id = ?", group.ID).Count(&messageCount).Error)
	assert.Zero(t, messageCount)
}
