package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRef(t *testing.T) {
	userID, noteID := uuid.New(), uuid.New()

	gotUser, gotNote, err := NoteRef(NewNoteUpdated(userID, noteID))
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, noteID, gotNote)

	_, _, err = NoteRef(BaseEvent{Type: NoteUpdated, Data: map[string]interface{}{"user_id": "x"}})
	assert.Error(t, err)
}
