package Models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMigrates(t *testing.T) {
	db, err := Connect("sqlite", filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.True(t, db.Migrator().HasTable(&Employee{}))
	assert.True(t, db.Migrator().HasTable(&Task{}))
	assert.True(t, db.Migrator().HasIndex(&Employee{}, "Email"))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect("oracle", "whatever")
	assert.EqualError(t, err, `unsupported database driver "oracle"`)
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("user:pw@tcp(localhost:3306)/tracker")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}
