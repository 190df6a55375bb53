package feed

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"airwatch/internal/models"
)

// DefaultTimeout таймаут одного запроса к фиду
const DefaultTimeout = 5 * time.Second

// Client получает фид одним GET запросом
type Client struct {
	http *resty.Client
	url  string
}

// NewClient создает клиента фида. Повторов нет: следующий цикл опроса и есть повтор.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	http := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{http: http, url: url}
}

// URL адрес фида
func (c *Client) URL() string {
	return c.url
}

// Fetch загружает и разбирает фид. Любая ошибка возвращается как *models.FetchError.
func (c *Client) Fetch(ctx context.Context) (models.Feed, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		return models.Feed{}, &models.FetchError{URL: c.url, Err: err}
	}

	if !resp.IsSuccess() {
		return models.Feed{}, &models.FetchError{URL: c.url, StatusCode: resp.StatusCode()}
	}

	feed, err := DecodeFeed(resp.Body())
	if err != nil {
		return models.Feed{}, &models.FetchError{URL: c.url, Err: err}
	}
	return feed, nil
}
