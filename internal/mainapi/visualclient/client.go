// Пакет visualclient — HTTP-клиент сервиса визуализаций.
// Операции: создание, получение, обновление и удаление SVG-содержимого.
package visualclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound — содержимое не найдено в сервисе визуализаций.
var ErrNotFound = errors.New("содержимое не найдено в сервисе визуализаций")

// Content — SVG-содержимое визуализации (ответ сервиса визуализаций).
type Content struct {
	ID             int    `json:"id"`
	SVG            string `json:"svg"`
	DetailsOnHover bool   `json:"detailsOnHover"`
}

// Client — HTTP-клиент сервиса визуализаций.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент сервиса визуализаций.
// Таймаут выбирается с запасом: SVG-содержимое бывает крупным.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "visual_client")),
	}
}

// Create сохраняет SVG и возвращает созданное содержимое.
// POST /visualizations
func (c *Client) Create(ctx context.Context, svg string, detailsOnHover bool) (*Content, error) {
	payload, err := json.Marshal(map[string]any{
		"svg":            svg,
		"detailsOnHover": detailsOnHover,
	})
	if err != nil {
		return nil, fmt.Errorf("кодирование запроса создания: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/visualizations", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doContent(req, http.StatusCreated)
}

// Get возвращает SVG-содержимое по идентификатору.
// GET /visualizations/{id}
func (c *Client) Get(ctx context.Context, id int) (*Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/visualizations/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}

	return c.doContent(req, http.StatusOK)
}

// Update заменяет SVG-содержимое. Успешная замена — 204 без тела.
// PUT /visualizations/{id}
func (c *Client) Update(ctx context.Context, id int, svg string, detailsOnHover bool) error {
	payload, err := json.Marshal(map[string]any{
		"svg":            svg,
		"detailsOnHover": detailsOnHover,
	})
	if err != nil {
		return fmt.Errorf("кодирование запроса обновления: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		fmt.Sprintf("%s/visualizations/%d", c.baseURL, id), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос к сервису визуализаций: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("сервис визуализаций вернул статус %d: %s", resp.StatusCode, string(body))
	}
}

// Delete удаляет SVG-содержимое.
// DELETE /visualizations/{id}
func (c *Client) Delete(ctx context.Context, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/visualizations/%d", c.baseURL, id), nil)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос к сервису визуализаций: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("сервис визуализаций вернул статус %d: %s", resp.StatusCode, string(body))
	}
}

// CheckReady проверяет доступность сервиса визуализаций через /health.
// Реализует интерфейс handlers.ReadinessChecker.
func (c *Client) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "fail", "ошибка создания запроса: " + err.Error()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "fail", fmt.Sprintf("сервис визуализаций недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "fail", fmt.Sprintf("сервис визуализаций вернул статус %d", resp.StatusCode)
	}
	return "ok", "сервис визуализаций доступен"
}

// doContent выполняет запрос и декодирует Content из ответа.
func (c *Client) doContent(req *http.Request, wantStatus int) (*Content, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос к сервису визуализаций: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("сервис визуализаций вернул статус %d: %s", resp.StatusCode, string(body))
	}

	var content Content
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, fmt.Errorf("декодирование ответа сервиса визуализаций: %w", err)
	}
	return &content, nil
}
