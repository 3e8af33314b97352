package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/mind-engage/mindengage-authoring/internal/content"
)

const DefaultEndpoint = "http://localhost:8080/v1/education/quiz/create"

type Client struct {
	http     *http.Client
	endpoint string
}

type Config struct {
	Endpoint string
	// Client-credentials auth is used when TokenURL is set.
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Timeout      time.Duration

	HTTPClient *http.Client // optional base client (tests)
}

// SubmitError is a non-2xx answer from the quiz-creation endpoint.
type SubmitError struct {
	StatusCode int
	Status     string
	Body       string // first bytes of the response, for the log
}

func (e *SubmitError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("submit quiz: %s", e.Status)
	}
	return fmt.Sprintf("submit quiz: %s: %s", e.Status, e.Body)
}

func New(cfg Config) *Client {
	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	// callers may share base; only the copy gets our timeout
	cp := *base
	h := &cp
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		h = cc.Client(ctx)
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	ep := cfg.Endpoint
	if ep == "" {
		ep = DefaultEndpoint
	}
	return &Client{http: h, endpoint: ep}
}

func (c *Client) Endpoint() string { return c.endpoint }

// Submit posts the whole form as one JSON body. It does not retry.
func (c *Client) Submit(ctx context.Context, f content.Form) error {
	if f == nil {
		f = content.Form{}
	}
	body, err := json.Marshal(f)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit quiz: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return &SubmitError{StatusCode: res.StatusCode, Status: res.Status, Body: string(bytes.TrimSpace(snippet))}
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
