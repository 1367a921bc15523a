// Package testutil holds fixtures shared by repository, service and
// controller tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"learnflow-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every statement on the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.PasswordResetToken{},
		&model.Category{},
		&model.Note{},
		&model.QASet{},
		&model.Question{},
	))
	return db
}

// Content returns a note body of n characters.
func Content(n int) string {
	return strings.Repeat("a", n)
}

func SeedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	c := &model.Category{Id: uuid.New(), Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func SeedUser(t *testing.T, db *gorm.DB, email, passwordHash string) *model.User {
	t.Helper()
	u := &model.User{Id: uuid.New(), Email: email, PasswordHash: passwordHash}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedNote inserts a pending/idle note. Callers adjust statuses with
// db.Model(n).Updates when a test needs another starting state.
func SeedNote(t *testing.T, db *gorm.DB, userId uuid.UUID, categoryId *uuid.UUID, content string) *model.Note {
	t.Helper()
	n := &model.Note{
		Id:            uuid.New(),
		UserId:        userId,
		CategoryId:    categoryId,
		Content:       content,
		SummaryStatus: "pending",
		QAStatus:      "idle",
	}
	require.NoError(t, db.Omit("Category", "QASets").Create(n).Error)
	return n
}

// ReloadNote reads a note row straight from the table.
func ReloadNote(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Note {
	t.Helper()
	var n model.Note
	require.NoError(t, db.First(&n, "id = ?", id).Error)
	return &n
}
