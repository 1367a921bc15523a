package pgnotify_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"learnflow-be/internal/model"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/pkg/database"
	"learnflow-be/pkg/pgnotify"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerAnnouncesNoteWrites(t *testing.T) {
	_ = godotenv.Load("../../.env")
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Category{}, &model.Note{}, &model.QASet{}, &model.Question{}))

	channel := "note_updates_test"
	for _, stmt := range pgnotify.NoteTriggerSQL(channel) {
		require.NoError(t, db.Exec(stmt).Error)
	}
	t.Cleanup(func() {
		for _, stmt := range pgnotify.NoteTriggerSQL(pgnotify.DefaultChannel) {
			_ = db.Exec(stmt).Error
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	payloads := make(chan string, 4)
	listener := pgnotify.NewListener(dsn, channel, logger.NewNopLogger())
	go func() {
		_ = listener.Listen(ctx, func(ctx context.Context, payload string) error {
			payloads <- payload
			return nil
		})
	}()

	note := model.Note{
		Id:            uuid.New(),
		UserId:        uuid.New(),
		Content:       "integration",
		SummaryStatus: "pending",
		QAStatus:      "idle",
	}
	t.Cleanup(func() { db.Delete(&model.Note{}, "id = ?", note.Id) })

	// The LISTEN may not be in place yet; keep writing until one lands.
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	require.NoError(t, db.Create(&note).Error)

	for {
		select {
		case p := <-payloads:
			var ref struct {
				NoteID uuid.UUID `json:"note_id"`
				UserID uuid.UUID `json:"user_id"`
			}
			require.NoError(t, json.Unmarshal([]byte(p), &ref))
			assert.Equal(t, note.Id, ref.NoteID)
			assert.Equal(t, note.UserId, ref.UserID)
			return
		case <-ticker.C:
			require.NoError(t, db.Model(&model.Note{}).Where("id = ?", note.Id).Update("summary_status", "pending").Error)
		case <-ctx.Done():
			t.Fatal("no notification received")
		}
	}
}
