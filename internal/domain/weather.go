package domain

// Weather is the reduced DTO the platform exposes for current conditions,
// normalized from the upstream provider's response shape.
type Weather struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Weather     string  `json:"weather"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// ForecastEntry is a single daily summary in a weather forecast.
type ForecastEntry struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	Weather     string  `json:"weather"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}
