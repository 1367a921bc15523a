package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnflow-be/internal/controller"
	"learnflow-be/internal/model"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/pkg/serverutils"
	"learnflow-be/internal/pkg/testutil"
	"learnflow-be/internal/repository/memory"
	"learnflow-be/internal/repository/unitofwork"
	"learnflow-be/internal/service"
	"learnflow-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const summaryJSON = `{"summary":"Short summary.","keyPoints":["one"],"wordCount":60}`

type staticLLM struct{ content string }

func (p staticLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	return &llm.Completion{Content: p.content}, nil
}

func (p staticLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return &llm.Completion{Content: p.content}, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishSummarize(ctx context.Context, msg service.SummarizeNoteMessage) error {
	return nil
}

type nopEvents struct{}

func (nopEvents) NoteChanged(ctx context.Context, userId, noteId uuid.UUID) {}
func (nopEvents) Run(ctx context.Context) error                             { return nil }

type testApp struct {
	app    *fiber.App
	db     *gorm.DB
	issuer *serverutils.TokenIssuer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()

	issuer, err := serverutils.NewTokenIssuer("controller-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	auth := serverutils.JwtMiddleware(issuer, false)

	provider := staticLLM{content: summaryJSON}
	summarySvc := service.NewSummaryService(uowFactory, provider, nopEvents{}, log)
	qaSvc := service.NewQAService(uowFactory, staticLLM{content: `{"questions":[
		{"question":"Q1?","options":{"A":"a","B":"b","C":"c","D":"d"},"correct_option":"A"},
		{"question":"Q2?","options":{"A":"a","B":"b","C":"c","D":"d"},"correct_option":"B"},
		{"question":"Q3?","options":{"A":"a","B":"b","C":"c","D":"d"},"correct_option":"C"}
	]}`}, nopEvents{}, log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	api := app.Group("/api")
	controller.NewNoteController(service.NewNoteService(uowFactory, nopPublisher{}, log), auth).RegisterRoutes(api)
	controller.NewAIController(summarySvc, qaSvc, auth).RegisterRoutes(api)
	controller.NewCategoryController(service.NewCategoryService(uowFactory, memory.NewCategoryCache(time.Minute))).RegisterRoutes(api)
	controller.NewAuthController(
		service.NewAuthService(uowFactory, nopMailer{}, issuer, "http://client", time.Minute, log),
		issuer, false,
	).RegisterRoutes(api)

	return &testApp{app: app, db: db, issuer: issuer}
}

type nopMailer struct{}

func (nopMailer) SendPasswordReset(toEmail, resetLink string) error { return nil }

func (a *testApp) bearer(t *testing.T, userId uuid.UUID) string {
	t.Helper()
	pair, err := a.issuer.Issue(userId, "user@example.com")
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func (a *testApp) do(t *testing.T, method, path, auth string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp, decoded
}

func TestNoteRoutesRequireAuthentication(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, http.MethodPost, "/api/notes", "", map[string]string{"content": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Unauthorized", body["error"])

	resp, _ = a.do(t, http.MethodPost, "/api/ai/summarize/"+uuid.NewString(), "Bearer garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateSummarizeAndListNote(t *testing.T) {
	a := newTestApp(t)
	category := testutil.SeedCategory(t, a.db, "Biology")
	userId := uuid.New()
	auth := a.bearer(t, userId)

	resp, body := a.do(t, http.MethodPost, "/api/notes", auth, map[string]string{
		"content":     testutil.Content(320),
		"category_id": category.Id.String(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	note := body["note"].(map[string]interface{})
	assert.Equal(t, "pending", note["summary_status"])
	assert.Equal(t, "idle", note["qa_status"])
	noteId := note["id"].(string)

	resp, body = a.do(t, http.MethodPost, "/api/ai/summarize/"+noteId, auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, noteId, body["noteId"])
	assert.Equal(t, "Short summary.", body["summary"])

	resp, body = a.do(t, http.MethodPost, "/api/ai/generate-qa/"+noteId, auth, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode, body)
	assert.Equal(t, "Q&A generation started successfully", body["message"])

	resp, body = a.do(t, http.MethodGet, "/api/notes?categoryId="+category.Id.String(), auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notes := body["notes"].([]interface{})
	require.Len(t, notes, 1)
	listed := notes[0].(map[string]interface{})
	assert.Equal(t, "completed", listed["summary_status"])
	assert.Equal(t, "Short summary.", listed["summary"])
	assert.Len(t, listed["qa_sets"].([]interface{}), 1)
}

func TestCreateNoteValidationErrors(t *testing.T) {
	a := newTestApp(t)
	category := testutil.SeedCategory(t, a.db, "Biology")
	auth := a.bearer(t, uuid.New())

	resp, body := a.do(t, http.MethodPost, "/api/notes", auth, map[string]string{
		"content":     "too short",
		"category_id": category.Id.String(),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Note content must be between 300 and 10000 characters", body["error"])

	resp, _ = a.do(t, http.MethodPost, "/api/notes", auth, map[string]string{"content": testutil.Content(400)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = a.do(t, http.MethodGet, "/api/notes", auth, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "categoryId is required", body["error"])
}

func TestSummarizeConflictAndBadID(t *testing.T) {
	a := newTestApp(t)
	userId := uuid.New()
	auth := a.bearer(t, userId)
	note := testutil.SeedNote(t, a.db, userId, nil, testutil.Content(400))
	require.NoError(t, a.db.Model(&model.Note{}).Where("id = ?", note.Id).Update("summary_status", "processing").Error)

	resp, body := a.do(t, http.MethodPost, "/api/ai/summarize/"+note.Id.String(), auth, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "This note is already being summarized. Please wait.", body["error"])

	resp, body = a.do(t, http.MethodPost, "/api/ai/summarize/not-a-uuid", auth, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid note ID format.", body["error"])

	resp, _ = a.do(t, http.MethodPost, "/api/ai/generate-qa/"+uuid.NewString(), auth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteNote(t *testing.T) {
	a := newTestApp(t)
	userId := uuid.New()
	note := testutil.SeedNote(t, a.db, userId, nil, testutil.Content(400))

	resp, _ := a.do(t, http.MethodDelete, "/api/notes/"+note.Id.String(), a.bearer(t, uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = a.do(t, http.MethodDelete, "/api/notes/"+note.Id.String(), a.bearer(t, userId), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = a.do(t, http.MethodGet, "/api/notes/"+note.Id.String(), a.bearer(t, userId), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoryRoutes(t *testing.T) {
	a := newTestApp(t)
	category := testutil.SeedCategory(t, a.db, "History")

	resp, body := a.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["categories"].([]interface{}), 1)

	resp, body = a.do(t, http.MethodGet, "/api/categories/"+category.Id.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "History", body["category"].(map[string]interface{})["name"])

	resp, body = a.do(t, http.MethodGet, "/api/categories/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Category not found", body["error"])
}

func TestAuthSessionCookies(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var access *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == serverutils.AccessTokenCookie {
			access = c
		}
	}
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: access.Name, Value: access.Value})
	sessionResp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, sessionResp.StatusCode)

	var session struct {
		User *struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(sessionResp.Body).Decode(&session))
	require.NotNil(t, session.User)
	assert.Equal(t, "ada@example.com", session.User.Email)

	resp, body = a.do(t, http.MethodGet, "/api/auth/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, body["user"])
	assert.Equal(t, "Not authenticated", body["error"])

	resp, body = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-horse",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["error"])
}
