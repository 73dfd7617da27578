package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Orders    OrdersConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type OrdersConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type AssistantConfig struct {
	EventTopic              string
	AutomationMethod        string
	ObservationDelaySeconds int
	SessionTTLMinutes       int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Orders: OrdersConfig{
			BaseURL:        getEnv("ORDERS_BASE_URL", "http://localhost:8000"),
			TimeoutSeconds: getEnvAsInt("ORDERS_TIMEOUT_SECONDS", 15),
		},
		Assistant: AssistantConfig{
			EventTopic:              getEnv("ASSISTANT_EVENT_TOPIC_NAME", "ASSISTANT_DIRECTIVES"),
			AutomationMethod:        getEnv("ASSISTANT_AUTOMATION_METHOD", "strands"),
			ObservationDelaySeconds: getEnvAsInt("ASSISTANT_OBSERVATION_DELAY_SECONDS", 3),
			SessionTTLMinutes:       getEnvAsInt("ASSISTANT_SESSION_TTL_MINUTES", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
