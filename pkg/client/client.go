// Package client talks to the learnflow REST API and push channel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"learnflow-be/internal/dto"

	"github.com/google/uuid"
)

// APIError is a non-2xx response decoded from the server error body.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// Client keeps session cookies in a jar so a login carries over to later
// calls. SetToken switches to bearer auth for processes that restore a
// saved token instead.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     http.CookieJar
	token   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: u,
		jar:     jar,
		http:    &http.Client{Timeout: 150 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	} else {
		c.jar = c.http.Jar
	}
	return c, nil
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) Register(ctx context.Context, email, password string) (*dto.RegisterResponse, error) {
	var res dto.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: email, Password: password}, &res)
	return &res, err
}

// Login stores the access token for bearer auth as well as the cookies.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResult, error) {
	var res dto.LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	c.token = res.AccessToken
	return &res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.token = ""
	return err
}

// Session returns nil without error when nobody is signed in.
func (c *Client) Session(ctx context.Context) (*dto.UserDTO, error) {
	var res dto.SessionResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &res)
	if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res.User, nil
}

func (c *Client) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	var res dto.ListCategoriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &res); err != nil {
		return nil, err
	}
	return res.Categories, nil
}

func (c *Client) ListNotes(ctx context.Context, categoryId uuid.UUID) ([]dto.NoteResponse, error) {
	var res dto.ListNotesResponse
	path := "/api/notes?categoryId=" + url.QueryEscape(categoryId.String())
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Notes, nil
}

func (c *Client) GetNote(ctx context.Context, id uuid.UUID) (*dto.NoteResponse, error) {
	var res dto.NoteEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/notes/"+id.String(), nil, &res); err != nil {
		return nil, err
	}
	return &res.Note, nil
}

func (c *Client) CreateNote(ctx context.Context, categoryId uuid.UUID, content string) (*dto.NoteResponse, error) {
	var res dto.NoteEnvelope
	req := dto.CreateNoteRequest{Content: content, CategoryId: categoryId.String()}
	if err := c.do(ctx, http.MethodPost, "/api/notes", req, &res); err != nil {
		return nil, err
	}
	return &res.Note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+id.String(), nil, nil)
}

// Summarize blocks until the summary job finishes.
func (c *Client) Summarize(ctx context.Context, noteId uuid.UUID) (*dto.SummarizeResponse, error) {
	var res dto.SummarizeResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai/summarize/"+noteId.String(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GenerateQA(ctx context.Context, noteId uuid.UUID) (*dto.GenerateQAResponse, error) {
	var res dto.GenerateQAResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai/generate-qa/"+noteId.String(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errBody struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			apiErr.Details = errBody.Details
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
