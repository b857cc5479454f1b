package services

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sitetrack/internal/database"
	"sitetrack/internal/models"
	"sitetrack/internal/watch"
)

// newTestDB opens an isolated in-memory store and runs the real
// migration, partial email index included.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.MigrateAll(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestHub(t *testing.T) *watch.Hub {
	t.Helper()
	mr := miniredis.RunT(t)
	return watch.NewHub(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		ID:    uuid.New(),
		Email: uuid.NewString() + "@example.com",
		Name:  "User " + string(role),
		Role:  role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedProject(t *testing.T, db *gorm.DB, name string, managerIDs, supervisorIDs []string) *models.Project {
	t.Helper()
	project := models.Project{
		ID:                uuid.New(),
		Name:              name,
		ProjectManagerIDs: datatypes.JSONSlice[string](append([]string{}, managerIDs...)),
		LeadSupervisorIDs: datatypes.JSONSlice[string](append([]string{}, supervisorIDs...)),
		Reviews:           datatypes.NewJSONType(map[string]models.ProjectReview{}),
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return &project
}

func seedReport(t *testing.T, db *gorm.DB, projectID uuid.UUID, date string) *models.DailyReport {
	t.Helper()
	report := models.DailyReport{
		ID:        uuid.New(),
		ProjectID: projectID,
		Date:      date,
		Tasks:     "poured the foundation",
		Images:    datatypes.JSONSlice[string]([]string{}),
	}
	if err := db.Create(&report).Error; err != nil {
		t.Fatalf("seed report: %v", err)
	}
	return &report
}

func reloadProject(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Project {
	t.Helper()
	var project models.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		t.Fatalf("reload project: %v", err)
	}
	return &project
}
