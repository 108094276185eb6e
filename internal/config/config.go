// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ClientID         string
	ClientSecret     string
	Username         string
	Password         string
	UserAgent        string
	DefaultSubreddit string
	TokenURL         string
	APIBaseURL       string
	ServerPort       string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	RequestTimeout   time.Duration
	RatePerMinute    float64
	RateBurst        int
	MaxRetries       int
	MediaProxyURLs   []string
	MediaMaxBytes    int64
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	clientID := os.Getenv("REDDIT_CLIENT_ID")
	clientSecret := os.Getenv("REDDIT_CLIENT_SECRET")
	username := os.Getenv("REDDIT_USERNAME")
	password := os.Getenv("REDDIT_PASSWORD")

	var missing []string
	for key, value := range map[string]string{
		"REDDIT_CLIENT_ID":     clientID,
		"REDDIT_CLIENT_SECRET": clientSecret,
		"REDDIT_USERNAME":      username,
		"REDDIT_PASSWORD":      password,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	userAgent := os.Getenv("REDDIT_USER_AGENT")
	if userAgent == "" {
		// Reddit requires a descriptive, unique User-Agent:
		// "AppName/Version (by /u/username)"
		userAgent = fmt.Sprintf("LivePosting/1.0 (by /u/%s)", username)
		fmt.Println("No user agent specified, using default:", userAgent)
	}

	proxyURLsStr := strings.TrimSpace(os.Getenv("MEDIA_PROXY_URLS"))
	var proxyURLs []string
	if proxyURLsStr != "" {
		for _, proxy := range strings.Split(proxyURLsStr, ",") {
			proxy = strings.TrimSpace(proxy)
			if proxy == "" {
				continue
			}

			parsed, err := url.Parse(proxy)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy URL %s: %w", proxy, err)
			}
			switch parsed.Scheme {
			case "http", "https", "socks5":
			default:
				return nil, fmt.Errorf("unsupported proxy scheme in %s: %s", proxy, parsed.Scheme)
			}

			proxyURLs = append(proxyURLs, proxy)
		}

		fmt.Printf("Loaded %d media proxy URLs from configuration\n", len(proxyURLs))
	}

	return &Config{
		ClientID:         clientID,
		ClientSecret:     clientSecret,
		Username:         username,
		Password:         password,
		UserAgent:        userAgent,
		DefaultSubreddit: getEnv("DEFAULT_SUBREDDIT", "test"),
		TokenURL:         getEnv("REDDIT_TOKEN_URL", "https://www.reddit.com/api/v1/access_token"),
		APIBaseURL:       getEnv("REDDIT_API_BASE_URL", "https://oauth.reddit.com"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		ReadTimeout:      getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:     getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RatePerMinute:    getEnvFloat("RATE_LIMIT_PER_MINUTE", 60),
		RateBurst:        getEnvInt("RATE_LIMIT_BURST", 10),
		MaxRetries:       getEnvInt("MEDIA_MAX_RETRIES", 3),
		MediaProxyURLs:   proxyURLs,
		MediaMaxBytes:    getEnvInt64("MEDIA_MAX_BYTES", 50*1024*1024),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
