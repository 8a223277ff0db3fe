package config

// Constants defining default values for application configuration
const (
	DefaultPostgresHost = "localhost"
	DefaultPostgresPort = 5432
	DefaultPostgresDB   = "auto_intel"
	DefaultPostgresUser = "auto_intel"
	DefaultSSLMode      = "disable"

	DefaultServerPort = 8080
	DefaultServerHost = "" // Empty string means all interfaces

	DefaultUserAgent = "AutoIntelBot/1.0"

	DefaultSpider      = "all" // "news", "reviews" or "all"
	DefaultInterval    = 0     // Minutes between crawl cycles, 0 for one-shot
	DefaultExportDir   = "./project_data"
	DefaultAnalysisTTL = 15 // Minutes before the cached analysis report goes stale

	DefaultLogLevel = "info"
)
