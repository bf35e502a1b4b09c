// Package weather proxies an upstream weather provider, normalizing its
// response shape into the platform's own DTOs.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/fieldworks/fieldworks-api/internal/config"
	"github.com/fieldworks/fieldworks-api/internal/domain"
)

// Client calls the upstream weather provider.
//
// Every upstream failure - transport error, non-success status, malformed
// body - is re-signaled as domain.ErrWeatherUnavailable. There is no
// retry, no caching and no rate-limit handling.
type Client struct {
	baseURL       string
	apiKey        string
	countryCode   string
	forecastCount int
	httpClient    *http.Client
	logger        zerolog.Logger
}

// NewClient creates a weather client from configuration.
func NewClient(cfg config.WeatherConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		countryCode:   cfg.CountryCode,
		forecastCount: cfg.ForecastCount,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		logger:        logger.With().Str("component", "weather").Logger(),
	}
}

// Current returns the current weather for a city, qualified with the
// configured country code.
func (c *Client) Current(ctx context.Context, city string) (*domain.Weather, error) {
	body, err := c.fetch(ctx, "/weather", city, nil)
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.Get("name").Exists() || !parsed.Get("main").Exists() {
		c.logger.Error().Str("city", city).Msg("unexpected upstream weather payload")
		return nil, domain.ErrWeatherUnavailable
	}

	return &domain.Weather{
		Location:    parsed.Get("name").String(),
		Temperature: parsed.Get("main.temp").Float(),
		FeelsLike:   parsed.Get("main.feels_like").Float(),
		Humidity:    int(parsed.Get("main.humidity").Int()),
		WindSpeed:   parsed.Get("wind.speed").Float(),
		Weather:     parsed.Get("weather.0.main").String(),
		Description: parsed.Get("weather.0.description").String(),
		Icon:        parsed.Get("weather.0.icon").String(),
	}, nil
}

// Forecast returns a fixed-size ordered sequence of daily summaries for
// a city.
func (c *Client) Forecast(ctx context.Context, city string) ([]domain.ForecastEntry, error) {
	extra := url.Values{"cnt": []string{strconv.Itoa(c.forecastCount)}}
	body, err := c.fetch(ctx, "/forecast", city, extra)
	if err != nil {
		return nil, err
	}

	list := gjson.GetBytes(body, "list")
	if !list.Exists() || !list.IsArray() {
		c.logger.Error().Str("city", city).Msg("unexpected upstream forecast payload")
		return nil, domain.ErrWeatherUnavailable
	}

	var entries []domain.ForecastEntry
	list.ForEach(func(_, item gjson.Result) bool {
		entries = append(entries, domain.ForecastEntry{
			Date:        item.Get("dt_txt").String(),
			Temperature: item.Get("main.temp").Float(),
			Weather:     item.Get("weather.0.main").String(),
			Description: item.Get("weather.0.description").String(),
			Icon:        item.Get("weather.0.icon").String(),
		})
		return true
	})
	return entries, nil
}

// fetch performs one upstream GET and returns the raw body.
func (c *Client) fetch(ctx context.Context, path, city string, extra url.Values) ([]byte, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s,%s", city, c.countryCode))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	for key, vals := range extra {
		for _, v := range vals {
			params.Add(key, v)
		}
	}

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.ErrWeatherUnavailable
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("city", city).Msg("upstream weather call failed")
		return nil, domain.ErrWeatherUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("city", city).Msg("upstream weather call returned non-success status")
		return nil, domain.ErrWeatherUnavailable
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("city", city).Msg("failed to read upstream weather body")
		return nil, domain.ErrWeatherUnavailable
	}
	return body, nil
}
