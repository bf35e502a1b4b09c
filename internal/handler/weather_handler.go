package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fieldworks/fieldworks-api/internal/weather"
)

// WeatherHandler proxies the upstream weather provider.
type WeatherHandler struct {
	client    *weather.Client
	responder *Responder
	logger    zerolog.Logger
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(client *weather.Client, responder *Responder, logger zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{
		client:    client,
		responder: responder,
		logger:    logger.With().Str("handler", "weather").Logger(),
	}
}

// Current handles GET /api/weather/{city}.
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	out, err := h.client.Current(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out)
}

// Forecast handles GET /api/weather/forecast/{city}.
func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	out, err := h.client.Forecast(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out)
}
