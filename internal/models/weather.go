package models

// ProviderWeather is the subset of the OpenWeatherMap current-weather payload we read.
type ProviderWeather struct {
	Name string `json:"name"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Message interface{} `json:"message"`
}

// CityWeather is the response of the city weather endpoint.
type CityWeather struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    float64 `json:"humidity"`
	Condition   string  `json:"condition"`
	WindSpeed   float64 `json:"wind_speed"`
}

// StateWeather is the response of the state weather endpoint.
type StateWeather struct {
	State              string  `json:"state"`
	RepresentativeCity string  `json:"representative_city"`
	Temperature        float64 `json:"temperature"`
	FeelsLike          float64 `json:"feels_like"`
	Humidity           float64 `json:"humidity"`
	Condition          string  `json:"condition"`
	WindSpeed          float64 `json:"wind_speed"`
}
