package constants

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv pulls a .env file into the environment if one exists. Values
// already set in the environment win.
func LoadEnv(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func GetProjectPath() string {
	return getenv("PROJECT_PATH", "./project.json")
}

func GetLogLevel() string {
	return getenv("LOG_LEVEL", "info")
}

func GetLogFormat() string {
	return getenv("LOG_FORMAT", "text")
}

func GetPort() string {
	return getenv("PORT", "8080")
}

func GetDynamoEndpoint() string {
	return getenv("DYNAMO_ENDPOINT", "http://localhost:8000")
}

func GetDynamoRegion() string {
	return getenv("DYNAMO_REGION", "localhost")
}

func GetDynamoTable() string {
	return getenv("DYNAMO_TABLE", "scaletree-projects")
}

func GetReloadDebounce() time.Duration {
	return time.Duration(getenvInt("RELOAD_DEBOUNCE_MS", 250)) * time.Millisecond
}

func GetTicksPerQuarter() int {
	n := getenvInt("TICKS_PER_QUARTER", DefaultTicksPerQuarter)
	if n <= 0 {
		return DefaultTicksPerQuarter
	}
	return n
}

const DefaultTicksPerQuarter = 96

// chromatic root: 12 notes starting at middle C
const ChromaticTonic = 60
const ChromaticSize = 12

const MinPitch = 0
const MaxPitch = 127

const DefaultVelocity = 100
