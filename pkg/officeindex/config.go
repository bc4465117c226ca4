package officeindex

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the environment-derived settings for an Index. Zero values
// are meaningful: an empty OpenSearchURL disables the external extractor.
type Config struct {
	WorkspaceRoot            string
	RefreshIntervalSeconds   int
	BackgroundSyncSeconds    int
	ExtractTimeoutSeconds    int
	IncludePDF               bool
	OpenSearchURL            string
	OpenSearchPipeline       string
	OpenSearchUsername       string
	OpenSearchPassword       string
	S3Bucket                 string
	S3Prefix                 string
	S3Region                 string
	S3AccessKey              string
	S3SecretKey              string
}

// ConfigFromEnv reads officeindex settings the same way the reference
// implementation does: optional, lenient environment variables that fall
// back to defaults on missing or unparseable values.
func ConfigFromEnv() Config {
	return Config{
		WorkspaceRoot:          resolveWorkspaceRoot(),
		RefreshIntervalSeconds: envInt("OFFICEINDEX_REFRESH_INTERVAL_SECONDS", defaultRefreshIntervalSeconds, 0),
		BackgroundSyncSeconds:  envInt("OFFICEINDEX_BACKGROUND_SYNC_SECONDS", 0, 0),
		ExtractTimeoutSeconds:  envInt("OFFICEINDEX_EXTRACT_TIMEOUT_SECONDS", defaultHTTPTimeoutSeconds, 1),
		IncludePDF:             envBool("OFFICEINDEX_INCLUDE_PDF"),
		OpenSearchURL:          strings.TrimRight(strings.TrimSpace(os.Getenv("OFFICEINDEX_OPENSEARCH_URL")), "/"),
		OpenSearchPipeline:     envDefault("OFFICEINDEX_OPENSEARCH_PIPELINE", "attachment"),
		OpenSearchUsername:     strings.TrimSpace(os.Getenv("OFFICEINDEX_OPENSEARCH_USERNAME")),
		OpenSearchPassword:     os.Getenv("OFFICEINDEX_OPENSEARCH_PASSWORD"),
		S3Bucket:               strings.TrimSpace(os.Getenv("OFFICEINDEX_S3_BUCKET")),
		S3Prefix:               os.Getenv("OFFICEINDEX_S3_PREFIX"),
		S3Region:               envDefault("OFFICEINDEX_S3_REGION", "us-east-1"),
		S3AccessKey:            os.Getenv("OFFICEINDEX_S3_ACCESS_KEY"),
		S3SecretKey:            os.Getenv("OFFICEINDEX_S3_SECRET_KEY"),
	}
}

func resolveWorkspaceRoot() string {
	configured := strings.TrimSpace(os.Getenv("WORKSPACE_FILES_ROOT"))
	if configured == "" {
		return "./company_files"
	}
	return configured
}

func envDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback, min int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if parsed < min {
		return min
	}
	return parsed
}

func envBool(key string) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
