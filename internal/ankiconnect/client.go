// Package ankiconnect talks to a running Anki through the AnkiConnect add-on.
package ankiconnect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

// APIVersion is the AnkiConnect protocol version the client speaks.
const APIVersion = 6

type Client struct {
	httpClient       *resty.Client
	key              string
	maxRetryAttempts uint
}

func NewClient(baseURL, key string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		key:              key,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type Request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Key     string `json:"key,omitempty"`
	Params  any    `json:"params,omitempty"`
}

type Response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// APIError is an error reported by AnkiConnect itself.
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ankiconnect %s: %s", e.Action, e.Message)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	// Anki may still be starting
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	return false
}

func invoke[T any](ctx context.Context, client *Client, action string, params any) (T, error) {
	var result T
	if err := retry.Do(
		func() error {
			response, err := client.invoke(ctx, action, params)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			if err := json.Unmarshal(response, &result); err != nil {
				return retry.Unrecoverable(fmt.Errorf("json.Unmarshal(%s) > %w", response, err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.LastErrorOnly(true),
	); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func (client *Client) invoke(ctx context.Context, action string, params any) (json.RawMessage, error) {
	request := Request{
		Action:  action,
		Version: APIVersion,
		Key:     client.key,
		Params:  params,
	}
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&Response{}).
		Post("/")
	if err != nil {
		return nil, fmt.Errorf("httpClient.Post(%s) > %w", action, err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody, _ := response.Result().(*Response)
	if responseBody == nil {
		return nil, fmt.Errorf("empty response body: %s", response.String())
	}
	if responseBody.Error != nil {
		return nil, &APIError{Action: action, Message: *responseBody.Error}
	}
	slog.Default().Debug("ankiconnect response",
		"action", action,
		"result", string(responseBody.Result),
	)
	return responseBody.Result, nil
}

// Version returns the protocol version of the running AnkiConnect.
func (client *Client) Version(ctx context.Context) (int, error) {
	return invoke[int](ctx, client, "version", nil)
}

// CurrentCard is the card of the running review.
type CurrentCard struct {
	CardID      int64    `json:"cardId"`
	DeckName    string   `json:"deckName"`
	ModelName   string   `json:"modelName"`
	Template    string   `json:"template"`
	Buttons     []int    `json:"buttons"`
	NextReviews []string `json:"nextReviews"`
}

// GUICurrentCard returns the card under review, or nil when no review is running.
func (client *Client) GUICurrentCard(ctx context.Context) (*CurrentCard, error) {
	return invoke[*CurrentCard](ctx, client, "guiCurrentCard", nil)
}

// GUIShowAnswer reveals the answer of the current card.
// It reports false when no review is running.
func (client *Client) GUIShowAnswer(ctx context.Context) (bool, error) {
	return invoke[bool](ctx, client, "guiShowAnswer", nil)
}

// Review is one revlog row as returned by getReviewsOfCards.
type Review struct {
	ID           int64 `json:"id"`
	USN          int   `json:"usn"`
	Ease         int   `json:"ease"`
	Interval     int   `json:"ivl"`
	LastInterval int   `json:"lastIvl"`
	Factor       int   `json:"factor"`
	Time         int   `json:"time"`
	Type         int   `json:"type"`
}

// GetReviewsOfCards returns every review of the given cards, keyed by card id.
func (client *Client) GetReviewsOfCards(ctx context.Context, cardIDs []int64) (map[int64][]Review, error) {
	cards := make([]string, 0, len(cardIDs))
	for _, id := range cardIDs {
		cards = append(cards, strconv.FormatInt(id, 10))
	}
	raw, err := invoke[map[string][]Review](ctx, client, "getReviewsOfCards", map[string]any{"cards": cards})
	if err != nil {
		return nil, err
	}

	result := make(map[int64][]Review, len(raw))
	for key, reviews := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("strconv.ParseInt(%s) > %w", key, err)
		}
		result[id] = reviews
	}
	return result, nil
}
