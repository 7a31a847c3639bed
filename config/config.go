package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config содержит все настройки сервиса
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Database  DatabaseConfig
	Inventory InventoryConfig
	Search    SearchConfig
	Admin     AdminConfig
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	AppEnv      string
	Port        string
	CORSOrigins string
}

// LoggerConfig настройки zap логгера
type LoggerConfig struct {
	Level    string
	Encoding string
}

// DatabaseConfig настройки подключения к базе данных
type DatabaseConfig struct {
	URL        string // DSN PostgreSQL, пустая строка означает SQLite
	SQLitePath string
}

// InventoryConfig бизнес-настройки склада
type InventoryConfig struct {
	LowStockThreshold int
	LenientNumbers    bool // некорректные числа в форме товара превращаются в 0
}

// SearchConfig настройки внешнего поиска
type SearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
	Index     string
}

// AdminConfig учетная запись администратора, создаваемая при первом запуске
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// IsDevelopment сообщает, запущен ли сервис в режиме разработки
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}

// LoadEnv загружает .env (если есть) и читает конфигурацию из окружения
func LoadEnv() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "development"),
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "debug"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
		Database: DatabaseConfig{
			URL:        getEnv("DATABASE_URL", ""),
			SQLitePath: getEnv("SQLITE_PATH", "inventro.db"),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 10),
			LenientNumbers:    getEnvBool("LENIENT_NUMERIC_INPUT", false),
		},
		Search: SearchConfig{
			Enabled:   getEnvBool("SEARCH_ENABLED", false),
			Addresses: getEnvSlice("SEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("SEARCH_USERNAME", ""),
			Password:  getEnv("SEARCH_PASSWORD", ""),
			Index:     getEnv("SEARCH_INDEX", "inventro-items"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Email:    getEnv("ADMIN_EMAIL", "admin@inventro.local"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}
