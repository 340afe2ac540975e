package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// Client HTTP клиент календаря (REST API в стиле Google Calendar)
type Client struct {
	baseURL    string
	calendarID string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента календаря
func NewClient(baseURL, calendarID, token string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		calendarID: calendarID,
		token:      token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateEvent создает событие и возвращает его идентификатор
func (c *Client) CreateEvent(ctx context.Context, event Event) (string, bool, error) {
	body := eventRequest{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       eventTime{DateTime: event.Start.Format(time.RFC3339), TimeZone: event.Timezone},
		End:         eventTime{DateTime: event.End.Format(time.RFC3339), TimeZone: event.Timezone},
	}
	if event.AttendeeEmail != "" {
		body.Attendees = []attendee{{Email: event.AttendeeEmail}}
	}

	resp, err := c.do(ctx, http.MethodPost, c.eventsURL(""), body)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	default:
		return "", true, unexpectedStatus(resp)
	}

	var created eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", true, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if created.ID == "" {
		return "", true, fmt.Errorf("%w: empty event id", ErrInvalidResponse)
	}

	c.log.Info("Calendar event %s created", created.ID)
	return created.ID, true, nil
}

// UpdateEvent частично обновляет событие
func (c *Client) UpdateEvent(ctx context.Context, id string, patch EventPatch) (bool, error) {
	resp, err := c.do(ctx, http.MethodPatch, c.eventsURL(id), eventPatchRequest(patch))
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return true, nil
	case http.StatusNotFound, http.StatusGone:
		return true, ErrEventNotFound
	default:
		return true, unexpectedStatus(resp)
	}
}

// DeleteEvent удаляет событие; уже удалённое событие не считается ошибкой
func (c *Client) DeleteEvent(ctx context.Context, id string) (bool, error) {
	resp, err := c.do(ctx, http.MethodDelete, c.eventsURL(id), nil)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound, http.StatusGone:
		return true, nil
	default:
		return true, unexpectedStatus(resp)
	}
}

func (c *Client) eventsURL(id string) string {
	u := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(c.calendarID))
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *Client) do(ctx context.Context, method, u string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	return resp, nil
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
}

// Noop календарь не настроен
type Noop struct{}

func (Noop) CreateEvent(context.Context, Event) (string, bool, error) {
	return "", false, nil
}

func (Noop) UpdateEvent(context.Context, string, EventPatch) (bool, error) {
	return false, nil
}

func (Noop) DeleteEvent(context.Context, string) (bool, error) {
	return false, nil
}
