package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnflow-be/internal/dto"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeAPI(t *testing.T, userId uuid.UUID) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "cookie-token", Path: "/"})
		writeJSON(w, http.StatusOK, dto.LoginResult{
			User:        dto.UserDTO{Id: userId, Email: "ada@example.com"},
			AccessToken: "bearer-token",
		})
	})
	mux.HandleFunc("/api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("access_token")
		if err != nil || cookie.Value != "cookie-token" {
			writeJSON(w, http.StatusUnauthorized, dto.SessionResponse{Error: "Not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, dto.SessionResponse{User: &dto.UserDTO{Id: userId, Email: "ada@example.com"}})
	})
	mux.HandleFunc("/api/notes/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer bearer-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Note not found or access denied",
			"details": "no row",
		})
	})
	mux.HandleFunc("/api/ai/generate-qa/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusAccepted, dto.GenerateQAResponse{Success: true, Message: "Q&A generation started successfully"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginKeepsCookiesAndToken(t *testing.T) {
	userId := uuid.New()
	srv := newFakeAPI(t, userId)
	c, err := New(srv.URL)
	require.NoError(t, err)

	user, err := c.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)

	res, err := c.Login(context.Background(), "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, userId, res.User.Id)
	assert.Equal(t, "bearer-token", c.Token())

	user, err = c.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestErrorBodyIsDecoded(t *testing.T) {
	srv := newFakeAPI(t, uuid.New())
	c, err := New(srv.URL, WithToken("bearer-token"))
	require.NoError(t, err)

	_, err = c.GetNote(context.Background(), uuid.New())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Note not found or access denied", apiErr.Message)
	assert.Equal(t, "no row", apiErr.Details)

	res, err := c.GenerateQA(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestWatchDeliversNoteUpdates(t *testing.T) {
	noteId := uuid.New()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ws" || r.URL.Query().Get("token") != "bearer-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteJSON(map[string]interface{}{"type": "ping", "data": nil})
		_ = conn.WriteJSON(map[string]interface{}{
			"type": "note_updated",
			"data": dto.NoteResponse{Id: noteId, SummaryStatus: "completed", QAStatus: "idle"},
		})
		// Hold the connection until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithToken("bearer-token"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan dto.NoteResponse, 1)
	connected := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, func(n dto.NoteResponse) {
			received <- n
			cancel()
		}, StreamEvents{OnConnect: func() { connected <- struct{}{} }}, DefaultBackoff)
	}()

	select {
	case n := <-received:
		assert.Equal(t, noteId, n.Id)
		assert.Equal(t, "completed", n.SummaryStatus)
	case <-time.After(5 * time.Second):
		t.Fatal("no note update received")
	}
	assert.Len(t, connected, 1)
	assert.NoError(t, <-done)
}

func TestWatchStopsOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	err = c.Watch(context.Background(), func(dto.NoteResponse) {}, StreamEvents{}, DefaultBackoff)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestBackoffCaps(t *testing.T) {
	b := Backoff{Initial: time.Second, Max: 3 * time.Second, Multiplier: 2}
	d := b.next(0)
	assert.Equal(t, time.Second, d)
	d = b.next(d)
	assert.Equal(t, 2*time.Second, d)
	assert.Equal(t, 3*time.Second, b.next(d))
}
