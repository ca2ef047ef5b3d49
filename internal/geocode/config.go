package geocode

// Config holds settings for the geocoding client.
type Config struct {
	Endpoint  string
	UserAgent string
	Limit     int
	TimeoutMs int
	// RatePerSecond caps outgoing requests. Zero or less disables the cap.
	RatePerSecond float64
	LogCalls      bool
}

// DefaultConfig points at the public Nominatim instance. Its usage policy
// requires an identifying user agent and at most one request per second.
func DefaultConfig() Config {
	return Config{
		Endpoint:      "https://nominatim.openstreetmap.org",
		UserAgent:     "tourdesk/1.0",
		Limit:         5,
		TimeoutMs:     5000,
		RatePerSecond: 1,
	}
}
