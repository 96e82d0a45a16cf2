package Services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"TaskTracker/Models"
	"TaskTracker/Security"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// setupTestDB opens a private in-memory database for the calling test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type testServices struct {
	DB        *gorm.DB
	Codec     *Security.TokenCodec
	Auth      *AuthService
	Employees *EmployeeService
	Tasks     *TaskService
}

func setupServices(t *testing.T) testServices {
	t.Helper()

	db := setupTestDB(t)
	validator := NewValidator()
	codec := newTestCodec()
	auth := NewAuthService(db, codec, validator)
	auth.BcryptCost = bcrypt.MinCost

	return testServices{
		DB:        db,
		Codec:     codec,
		Auth:      auth,
		Employees: NewEmployeeService(db, validator),
		Tasks:     NewTaskService(db, validator),
	}
}

func newTestCodec() *Security.TokenCodec {
	return Security.NewTokenCodec(testSecret, 10*time.Hour)
}

func localTime(year int, month time.Month, day, hour, min, sec int) Models.LocalDateTime {
	return Models.NewLocalDateTime(time.Date(year, month, day, hour, min, sec, 0, time.UTC))
}
