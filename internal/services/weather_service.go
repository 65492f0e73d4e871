package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tourism-platform/internal/apperrors"
	"tourism-platform/internal/models"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

const (
	missingKeyMessage = "OpenWeatherMap API key not configured. " +
		"Set the WEATHER_API_KEY (or OPENWEATHER_API_KEY) environment variable. " +
		"See https://openweathermap.org/api for details."
	unauthorizedHelp = "Verify your WEATHER_API_KEY / OPENWEATHER_API_KEY environment variable. " +
		"See https://openweathermap.org/faq#error401"

	maxProviderBody = 1 << 20
)

// WeatherOptions configures the provider client.
type WeatherOptions struct {
	APIKey      string
	BaseURL     string
	CountryCode string
	Timeout     time.Duration
	// Attempts is the total number of tries on transport failure.
	Attempts int
	// CacheTTL of zero disables caching.
	CacheTTL time.Duration
}

// WeatherService looks up current conditions from OpenWeatherMap.
type WeatherService struct {
	opts    WeatherOptions
	client  *http.Client
	aliases *PlaceAliases
	cache   *cache.Cache
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewWeatherService creates a new weather service
func NewWeatherService(opts WeatherOptions, aliases *PlaceAliases, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *WeatherService {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if aliases == nil {
		aliases = DefaultPlaceAliases()
	}

	s := &WeatherService{
		opts:    opts,
		client:  &http.Client{Timeout: opts.Timeout},
		aliases: aliases,
		logger:  logger,
		metrics: metricsCollector,
	}
	if opts.CacheTTL > 0 {
		s.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return s
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// CityWeather returns the current weather of a city.
func (s *WeatherService) CityWeather(ctx context.Context, city string) (*models.CityWeather, error) {
	name := s.aliases.ProviderName(titleCase(city))

	data, err := s.fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	resolved := data.Name
	if resolved == "" {
		resolved = name
	}
	return &models.CityWeather{
		City:        resolved,
		Temperature: round1(data.Main.Temp),
		FeelsLike:   round1(data.Main.FeelsLike),
		Humidity:    data.Main.Humidity,
		Condition:   condition(data),
		WindSpeed:   data.Wind.Speed,
	}, nil
}

// StateWeather returns the weather of the state's representative city.
func (s *WeatherService) StateWeather(ctx context.Context, state string) (*models.StateWeather, error) {
	title := titleCase(state)
	rep, ok := s.aliases.RepresentativeCity(title)
	if !ok {
		return nil, apperrors.NotFound("State not found or no representative city available")
	}
	name := s.aliases.ProviderName(rep)

	data, err := s.fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	return &models.StateWeather{
		State:              title,
		RepresentativeCity: name,
		Temperature:        round1(data.Main.Temp),
		FeelsLike:          round1(data.Main.FeelsLike),
		Humidity:           data.Main.Humidity,
		Condition:          condition(data),
		WindSpeed:          data.Wind.Speed,
	}, nil
}

func (s *WeatherService) fetch(ctx context.Context, name string) (*models.ProviderWeather, error) {
	if s.opts.APIKey == "" {
		return nil, apperrors.New(apperrors.KindInternal, "Missing API key").
			WithDetail("message", missingKeyMessage)
	}

	if s.cache != nil {
		if hit, ok := s.cache.Get(name); ok {
			s.metrics.WeatherCacheHits.Inc()
			return hit.(*models.ProviderWeather), nil
		}
	}

	endpoint, err := s.endpoint(name)
	if err != nil {
		return nil, apperrors.Internal("invalid weather provider url", err)
	}

	status, body, err := s.get(ctx, endpoint)
	if err != nil {
		s.metrics.RecordWeatherRequest("transport_error")
		s.logger.Error(ctx, "[WEATHER_ERROR] Provider unreachable", logging.Fields{"place": name}, err)
		return nil, apperrors.Wrap(apperrors.KindUpstream, "Weather provider request failed", err).
			WithStatus(http.StatusInternalServerError)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		s.metrics.RecordWeatherRequest("invalid_body")
		return nil, apperrors.Upstream("Unexpected response from weather provider", err).
			WithDetail("status_code", status)
	}

	if status == http.StatusUnauthorized {
		s.metrics.RecordWeatherRequest("unauthorized")
		providerMsg, ok := raw["message"]
		if !ok {
			providerMsg = "Unauthorized"
		}
		return nil, apperrors.Upstream("Invalid or unauthorized API key for OpenWeatherMap.", nil).
			WithStatus(http.StatusUnauthorized).
			WithDetail("provider_message", providerMsg).
			WithDetail("help", unauthorizedHelp)
	}

	var data models.ProviderWeather
	if status != http.StatusOK || json.Unmarshal(body, &data) != nil || data.Main == nil {
		s.metrics.RecordWeatherRequest("not_found")
		s.logger.Debug(ctx, "[WEATHER_NOT_FOUND] Provider returned no reading", logging.Fields{
			"place":  name,
			"status": status,
		})
		return nil, apperrors.NotFound("Weather data not found").WithDetail("details", raw)
	}

	s.metrics.RecordWeatherRequest("ok")
	if s.cache != nil {
		s.cache.SetDefault(name, &data)
	}
	return &data, nil
}

func (s *WeatherService) endpoint(name string) (string, error) {
	u, err := url.Parse(s.opts.BaseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("q", fmt.Sprintf("%s,%s", name, s.opts.CountryCode))
	q.Set("appid", s.opts.APIKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// get performs the request, retrying transport failures immediately up to
// Attempts tries in total. HTTP error statuses are returned, not retried.
func (s *WeatherService) get(ctx context.Context, endpoint string) (int, []byte, error) {
	var status int
	var body []byte

	op := func() error {
		timer := s.metrics.NewTimer(s.metrics.WeatherDuration)
		defer timer.ObserveDuration()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
		if err != nil {
			return err
		}
		status, body = resp.StatusCode, b
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(s.opts.Attempts-1)),
		ctx,
	)
	notify := func(err error, _ time.Duration) {
		s.metrics.WeatherRetriesTotal.Inc()
		s.logger.Debug(ctx, "[WEATHER_RETRY] Provider request failed, retrying", logging.Fields{
			"error": err.Error(),
		})
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return 0, nil, err
	}
	return status, body, nil
}

func condition(data *models.ProviderWeather) string {
	if len(data.Weather) == 0 {
		return ""
	}
	return titleCase(data.Weather[0].Description)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
