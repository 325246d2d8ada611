package domain

import "testing"

func TestWeatherFactor(t *testing.T) {
	cases := []struct {
		w    Weather
		want float64
	}{
		{WeatherStormy, 1.5},
		{WeatherModerate, 1.2},
		{WeatherCalm, 1.0},
		{Weather("Foggy"), 1.0},
		{Weather(""), 1.0},
	}

	for _, c := range cases {
		if got := c.w.Factor(); got != c.want {
			t.Errorf("Factor(%q) = %v, want %v", c.w, got, c.want)
		}
	}
}

func TestParseWeather(t *testing.T) {
	w, err := ParseWeather(" stormy ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != WeatherStormy {
		t.Fatalf("weather = %q, want %q", w, WeatherStormy)
	}

	if _, err := ParseWeather("hurricane"); err == nil {
		t.Fatal("expected error for unknown weather")
	}
}
