package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"StorySync/internal/cli/auth"
)

// Client talks to the story API. It reads the bearer credential from the
// injected holder on every authenticated call.
type Client struct {
	baseURL string
	httpc   *http.Client
	creds   *auth.Credentials
}

// NewClient creates a client for the API at baseURL (no trailing slash).
func NewClient(baseURL string, creds *auth.Credentials) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// envelope is the common response wrapper of the story API.
type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// LoginResult carries the bearer token and user identity returned by login.
type LoginResult struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// StoryDTO is a story as returned by the remote listing.
type StoryDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PhotoURL    string   `json:"photoUrl"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	CreatedAt   string   `json:"createdAt"`
}

// CreateResult is the server's confirmation of a created story.
type CreateResult struct {
	ID       string `json:"id"`
	PhotoURL string `json:"photoUrl"`
}

// Online probes the API origin. Any HTTP response counts as connectivity;
// only transport-level failure means offline.
func (c *Client) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return true
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body, err := json.Marshal(map[string]string{
		"name": name, "email": email, "password": password,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(req, nil)
	return err
}

// Login exchanges credentials for a bearer token. The caller is responsible
// for storing the token in the credential holder.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{
		"email": email, "password": password,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out struct {
		envelope
		LoginResult LoginResult `json:"loginResult"`
	}
	if _, err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.LoginResult.Token == "" {
		return nil, fmt.Errorf("%w: login response carried no token", ErrRemote)
	}
	return &out.LoginResult, nil
}

// ListStories fetches the authoritative story listing.
func (c *Client) ListStories(ctx context.Context) ([]StoryDTO, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stories", nil)
	if err != nil {
		return nil, err
	}
	if err := c.authorize(req); err != nil {
		return nil, err
	}
	var out struct {
		envelope
		ListStory []StoryDTO `json:"listStory"`
	}
	if _, err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.ListStory, nil
}

// CreateStory uploads a new story as multipart form data. This is always a
// create: local-only ids are never sent to the server.
func (c *Client) CreateStory(ctx context.Context, description string, photo []byte, photoName string, lat, lon *float64) (*CreateResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("description", description); err != nil {
		return nil, err
	}
	if lat != nil {
		if err := w.WriteField("lat", strconv.FormatFloat(*lat, 'f', -1, 64)); err != nil {
			return nil, err
		}
	}
	if lon != nil {
		if err := w.WriteField("lon", strconv.FormatFloat(*lon, 'f', -1, 64)); err != nil {
			return nil, err
		}
	}
	if photoName == "" {
		photoName = "photo.jpg"
	}
	fw, err := w.CreateFormFile("photo", photoName)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(photo); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stories", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := c.authorize(req); err != nil {
		return nil, err
	}
	var out struct {
		envelope
		Data CreateResult `json:"data"`
	}
	if _, err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// authorize attaches the bearer token, failing before any network I/O when
// the credential is absent.
func (c *Client) authorize(req *http.Request) error {
	token, ok := c.creds.Token()
	if !ok {
		return auth.ErrNoCredential
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// do executes the request, classifies failures and decodes the JSON body
// into out when provided.
func (c *Client) do(req *http.Request, out any) ([]byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoConnection, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoConnection, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(body)
		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return nil, fmt.Errorf("%w: %s", ErrValidation, msg)
		default:
			return nil, fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, msg)
		}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("%w: decode response: %w", ErrRemote, err)
		}
	}
	return body, nil
}

func serverMessage(body []byte) string {
	var e envelope
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}
