package domain

import (
	"fmt"
	"strings"
)

// Sea conditions reported for a voyage.
type Weather string

const (
	WeatherCalm     Weather = "Calm"
	WeatherModerate Weather = "Moderate"
	WeatherStormy   Weather = "Stormy"
)

// Parse a weather value, accepting any letter case.
func ParseWeather(s string) (Weather, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "calm":
		return WeatherCalm, nil
	case "moderate":
		return WeatherModerate, nil
	case "stormy":
		return WeatherStormy, nil
	}
	return "", fmt.Errorf("parse weather: unknown value %q", s)
}

// Factor maps weather to the severity multiplier used as a fuel model feature.
// Unknown values are treated as calm.
func (w Weather) Factor() float64 {
	switch w {
	case WeatherStormy:
		return 1.5
	case WeatherModerate:
		return 1.2
	default:
		return 1.0
	}
}
