// Package backend is the typed client for the hosted backend service: three
// REST table resources (logs, injuries, user_preferences), a public object
// store for images, and the auth endpoint issuing JWT sessions. All rules
// about what may be stored live server-side; this package only shapes
// requests and decodes responses.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

type Config struct {
	BaseURL string
	AnonKey string
	Bucket  string

	// HTTPClient overrides the default transport; tests use this to route
	// requests into an in-process server.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	anonKey string
	bucket  string
	http    *http.Client

	mu      sync.RWMutex
	session *Session
}

func New(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		anonKey: config.AnonKey,
		bucket:  config.Bucket,
		http:    httpClient,
	}
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (apiErr *APIError) Error() string {
	if apiErr.Message == "" {
		return fmt.Sprintf("backend returned status %d", apiErr.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", apiErr.Status, apiErr.Message)
}

func (client *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	endpoint := client.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	client.setAuthHeaders(request)
	if method == http.MethodPost || method == http.MethodPatch {
		request.Header.Set("Prefer", "return=representation")
	}

	response, err := client.http.Do(request)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return decodeAPIError(response)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (client *Client) setAuthHeaders(request *http.Request) {
	request.Header.Set("apikey", client.anonKey)
	token := client.anonKey
	if session, ok := client.Session(); ok {
		token = session.AccessToken
	}
	request.Header.Set("Authorization", "Bearer "+token)
}

func decodeAPIError(response *http.Response) error {
	payload := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}
	raw, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
	_ = json.Unmarshal(raw, &payload)
	message := payload.Message
	if message == "" {
		message = payload.Error
	}
	return &APIError{Status: response.StatusCode, Message: message}
}
