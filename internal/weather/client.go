// Package weather は外部の天気APIから今日の天気を取得します。
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"todo-manager/backend/internal/apperror"
)

// dateLayout は天気APIの date フィールドの形式 (MM-dd) です。
const dateLayout = "01-02"

const cacheTTL = time.Hour

// Cache は日付をキーに天気を保存します。見つからなければエラーを返します。
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
}

type entry struct {
	Date    string `json:"date"`
	Weather string `json:"weather"`
}

// Client は天気APIクライアントです。
type Client struct {
	url   string
	http  *http.Client
	cache Cache // nil ならキャッシュしない
	now   func() time.Time
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithClock は現在時刻の取得元を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient は新しいClientを作成します。
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: 5 * time.Second},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TodayWeather は今日 (MM-dd) の天気を返します。
func (c *Client) TodayWeather(ctx context.Context) (string, error) {
	today := c.now().Format(dateLayout)

	if c.cache != nil {
		if w, err := c.cache.Get(ctx, today); err == nil {
			return w, nil
		}
	}

	entries, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", apperror.ErrEmptyWeatherData
	}

	for _, e := range entries {
		if e.Date != today {
			continue
		}
		if c.cache != nil {
			if err := c.cache.Set(ctx, today, e.Weather, cacheTTL); err != nil {
				log.Printf("Failed to cache weather: %v", err)
			}
		}
		return e.Weather, nil
	}
	return "", apperror.ErrTodayWeatherNotFound
}

func (c *Client) fetch(ctx context.Context) ([]entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, apperror.ErrWeatherAPIFailure.Wrap(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("Failed to call weather API: %v", err)
		return nil, apperror.ErrWeatherAPIFailure.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.ErrWeatherAPIFailure.Wrap(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, apperror.ErrWeatherAPIFailure.Wrap(errors.Join(errors.New("decode weather payload"), err))
	}
	return entries, nil
}
