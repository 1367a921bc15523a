package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"learnflow-be/pkg/client"
)

type savedSession struct {
	API         string `json:"api"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

type commandContext struct {
	apiFlag     *string
	sessionFlag *string
}

func newCommandContext(apiFlag, sessionFlag *string) *commandContext {
	return &commandContext{apiFlag: apiFlag, sessionFlag: sessionFlag}
}

func (c *commandContext) apiURL() string {
	return strings.TrimRight(strings.TrimSpace(*c.apiFlag), "/")
}

func (c *commandContext) sessionPath() (string, error) {
	if p := strings.TrimSpace(*c.sessionFlag); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "learnflow", "session.json"), nil
}

func (c *commandContext) loadSession() (*savedSession, error) {
	path, err := c.sessionPath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s savedSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (c *commandContext) saveSession(s savedSession) error {
	path, err := c.sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func (c *commandContext) clearSession() error {
	path, err := c.sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// anonymousClient is used before login.
func (c *commandContext) anonymousClient() (*client.Client, error) {
	return client.New(c.apiURL())
}

// authedClient restores the saved token for the selected API.
func (c *commandContext) authedClient() (*client.Client, error) {
	s, err := c.loadSession()
	if err != nil {
		return nil, err
	}
	if s == nil || s.AccessToken == "" || s.API != c.apiURL() {
		return nil, errors.New("not logged in; run `learnflow login` first")
	}
	return client.New(c.apiURL(), client.WithToken(s.AccessToken))
}
