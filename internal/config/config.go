package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"anonymizer/internal/detection"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	InvokeToken string

	ModelPath   string // darknet weights
	ConfigPath  string // darknet topology
	ClassesPath string // newline-delimited class names

	ScratchDirectory string
	LogDirectory     string
	LogLevel         string

	BlobBackend      string // "s3" or "sqlite"
	DatabasePath     string
	AWSRegion        string
	S3Endpoint       string
	S3ForcePathStyle bool

	MQTTBroker        string
	MQTTRequestTopic  string
	MQTTResponseTopic string

	Detection detection.Params
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	params := detection.DefaultParams()
	params.ConfidenceThreshold = getEnvAsFloat("CONFIDENCE_THRESHOLD", params.ConfidenceThreshold)
	params.NMSThreshold = getEnvAsFloat("NMS_THRESHOLD", params.NMSThreshold)
	params.InputSize = getEnvAsInt("INPUT_SIZE", params.InputSize)
	params.AnonymizeClasses = getEnvAsList("ANONYMIZE_CLASSES", params.AnonymizeClasses)
	params.Annotate = getEnvAsBool("ANNOTATE", params.Annotate)

	return &Config{
		Port:              getEnvAsInt("PORT", 8080),
		InvokeToken:       getEnv("INVOKE_TOKEN", ""),
		ModelPath:         getEnv("MODEL_PATH", "/var/task/yolov3.weights"),
		ConfigPath:        getEnv("CONFIG_PATH", "/var/task/yolov3.cfg"),
		ClassesPath:       getEnv("CLASSES_PATH", "/var/task/yolov3.txt"),
		ScratchDirectory:  getEnv("SCRATCH_DIR", os.TempDir()),
		LogDirectory:      getEnv("LOG_DIR", ""),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		BlobBackend:       strings.ToLower(getEnv("BLOB_BACKEND", "s3")),
		DatabasePath:      getEnv("DATABASE_PATH", filepath.Join(".", "data", "blobs.db")),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3ForcePathStyle:  getEnvAsBool("S3_FORCE_PATH_STYLE", false),
		MQTTBroker:        getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTRequestTopic:  getEnv("MQTT_REQUEST_TOPIC", "anonymizer/request"),
		MQTTResponseTopic: getEnv("MQTT_RESPONSE_TOPIC", "anonymizer/response"),
		Detection:         params,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
