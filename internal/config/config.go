package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string

	JWTSecret string
	JWTTTL    time.Duration

	AdminName     string
	AdminEmail    string
	AdminPassword string

	MongoURI string
	MongoDB  string

	SweepInterval time.Duration
	CORSOrigins   string
	BodyLimitMB   int
	MaxUploadMB   int
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[config] ignoring .env: %v", err)
	}

	cfg := Config{
		Port:     str("PORT", "8080"),
		DBDSN:    str("DB_DSN", "bellashop.db"), // sqlite file in project root
		MediaDir: str("MEDIA_DIR", "./uploads"),
		LogFile:  os.Getenv("LOG_FILE"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    dur("JWT_TTL", 7*24*time.Hour),

		AdminName:     str("ADMIN_NAME", "Admin"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  str("MONGO_DB", "bellashop"),

		SweepInterval: dur("SWEEP_INTERVAL", 24*time.Hour),
		CORSOrigins:   str("CORS_ORIGINS", "*"),
		BodyLimitMB:   num("BODY_LIMIT_MB", 100),
		MaxUploadMB:   num("MAX_UPLOAD_MB", 10),
	}
	if cfg.JWTSecret == "" {
		// tokens will not survive a restart
		cfg.JWTSecret = uuid.NewString() + uuid.NewString()
		log.Printf("[config] JWT_SECRET not set, using a per-process secret")
	}

	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s JWT_TTL=%s MONGO=%t SWEEP_INTERVAL=%s CORS_ORIGINS=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.JWTTTL, cfg.MongoURI != "", cfg.SweepInterval, cfg.CORSOrigins)
	return cfg
}

func str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func dur(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("[config] bad %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

func num(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] bad %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
