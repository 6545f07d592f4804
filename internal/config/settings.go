package config

import (
	"os"
	"time"

	"fyne.io/fyne/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Layout modes for the gallery
type LayoutMode string

const (
	LayoutJustified LayoutMode = "justified"
	LayoutMasonry   LayoutMode = "masonry"
)

// Settings keys for Fyne preferences
const (
	KeyOrganization  = "github_organization"
	KeyLayoutMode    = "gallery_layout_mode"
	KeyRowHeight     = "gallery_row_height"
	KeySpacing       = "gallery_spacing"
	KeyMasonryCols   = "gallery_masonry_columns"
	KeyMaxWorkers    = "fetch_max_workers"
	KeyFetchTimeout  = "fetch_timeout_seconds"
	KeyCacheEnabled  = "cache_enabled"
	KeyCacheTTL      = "cache_ttl_seconds"
	KeyCacheMaxItems = "cache_max_items"
	KeyThumbnailSize = "upload_thumbnail_size"
	KeyJPEGQuality   = "upload_jpeg_quality"
	KeyPollInterval  = "pages_poll_interval_seconds"
	KeyPollAttempts  = "pages_poll_max_attempts"
	KeyWarningLimit  = "rate_warning_threshold"
	KeyCriticalLimit = "rate_critical_threshold"
)

// Environment variable carrying the GitHub token
const (
	EnvToken = "GITHUB_TOKEN"
)

// Default values
const (
	DefaultOrganization  = "lifetime-memories"
	DefaultLayoutMode    = LayoutJustified
	DefaultRowHeight     = 120
	DefaultSpacing       = 6
	DefaultMasonryCols   = 6
	DefaultMaxWorkers    = 8
	DefaultFetchTimeout  = 10
	DefaultCacheTTL      = 300
	DefaultCacheMaxItems = 1000
	DefaultThumbnailSize = 200
	DefaultJPEGQuality   = 85
	DefaultPollInterval  = 5
	DefaultPollAttempts  = 60
	DefaultWarningLimit  = 100
	DefaultCriticalLimit = 10
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// LoadToken reads the GitHub token from the environment, sourcing a .env file
// first when one is present. An empty token means read-only API access.
func LoadToken() string {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}
	return os.Getenv(EnvToken)
}

// GetOrganization returns the GitHub organization holding the photo repos
func (s *Settings) GetOrganization() string {
	org := s.app.Preferences().String(KeyOrganization)
	if org == "" {
		s.SetOrganization(DefaultOrganization)
		return DefaultOrganization
	}
	return org
}

// SetOrganization sets the GitHub organization
func (s *Settings) SetOrganization(org string) {
	s.app.Preferences().SetString(KeyOrganization, org)
}

// GetLayoutMode returns the configured gallery layout mode
func (s *Settings) GetLayoutMode() LayoutMode {
	mode := s.app.Preferences().String(KeyLayoutMode)
	if mode != string(LayoutJustified) && mode != string(LayoutMasonry) {
		s.SetLayoutMode(DefaultLayoutMode)
		return DefaultLayoutMode
	}
	return LayoutMode(mode)
}

// SetLayoutMode sets the gallery layout mode
func (s *Settings) SetLayoutMode(mode LayoutMode) {
	s.app.Preferences().SetString(KeyLayoutMode, string(mode))
}

// GetLayoutModeOptions returns available layout modes
func (s *Settings) GetLayoutModeOptions() []LayoutMode {
	return []LayoutMode{LayoutJustified, LayoutMasonry}
}

// GetRowHeight returns the target row height in pixels
func (s *Settings) GetRowHeight() int {
	return s.intWithDefault(KeyRowHeight, DefaultRowHeight, 40, 600)
}

// SetRowHeight sets the target row height
func (s *Settings) SetRowHeight(height int) {
	s.setClampedInt(KeyRowHeight, height, 40, 600)
}

// GetSpacing returns the gap between gallery items in pixels
func (s *Settings) GetSpacing() int {
	value := s.app.Preferences().IntWithFallback(KeySpacing, DefaultSpacing)
	if value < 0 {
		return DefaultSpacing
	}
	return value
}

// SetSpacing sets the gap between gallery items
func (s *Settings) SetSpacing(spacing int) {
	if spacing < 0 {
		spacing = 0
	}
	s.app.Preferences().SetInt(KeySpacing, spacing)
}

// GetMasonryColumns returns the masonry column count
func (s *Settings) GetMasonryColumns() int {
	return s.intWithDefault(KeyMasonryCols, DefaultMasonryCols, 1, 12)
}

// SetMasonryColumns sets the masonry column count
func (s *Settings) SetMasonryColumns(columns int) {
	s.setClampedInt(KeyMasonryCols, columns, 1, 12)
}

// GetMaxWorkers returns the fetch pipeline worker bound
func (s *Settings) GetMaxWorkers() int {
	return s.intWithDefault(KeyMaxWorkers, DefaultMaxWorkers, 1, 32)
}

// SetMaxWorkers sets the fetch pipeline worker bound
func (s *Settings) SetMaxWorkers(workers int) {
	s.setClampedInt(KeyMaxWorkers, workers, 1, 32)
}

// GetFetchTimeout returns the per-fetch timeout
func (s *Settings) GetFetchTimeout() time.Duration {
	return time.Duration(s.intWithDefault(KeyFetchTimeout, DefaultFetchTimeout, 1, 120)) * time.Second
}

// SetFetchTimeout sets the per-fetch timeout in seconds
func (s *Settings) SetFetchTimeout(seconds int) {
	s.setClampedInt(KeyFetchTimeout, seconds, 1, 120)
}

// GetCacheEnabled returns whether the repository cache is active
func (s *Settings) GetCacheEnabled() bool {
	return s.app.Preferences().BoolWithFallback(KeyCacheEnabled, true)
}

// SetCacheEnabled toggles the repository cache
func (s *Settings) SetCacheEnabled(enabled bool) {
	s.app.Preferences().SetBool(KeyCacheEnabled, enabled)
}

// GetCacheTTL returns the cache entry lifetime
func (s *Settings) GetCacheTTL() time.Duration {
	return time.Duration(s.intWithDefault(KeyCacheTTL, DefaultCacheTTL, 10, 3600)) * time.Second
}

// SetCacheTTL sets the cache entry lifetime in seconds
func (s *Settings) SetCacheTTL(seconds int) {
	s.setClampedInt(KeyCacheTTL, seconds, 10, 3600)
}

// GetCacheMaxItems returns the cache capacity
func (s *Settings) GetCacheMaxItems() int {
	return s.intWithDefault(KeyCacheMaxItems, DefaultCacheMaxItems, 10, 100000)
}

// SetCacheMaxItems sets the cache capacity
func (s *Settings) SetCacheMaxItems(count int) {
	s.setClampedInt(KeyCacheMaxItems, count, 10, 100000)
}

// GetThumbnailSize returns the upload thumbnail edge in pixels
func (s *Settings) GetThumbnailSize() int {
	return s.intWithDefault(KeyThumbnailSize, DefaultThumbnailSize, 50, 1000)
}

// SetThumbnailSize sets the upload thumbnail edge
func (s *Settings) SetThumbnailSize(size int) {
	s.setClampedInt(KeyThumbnailSize, size, 50, 1000)
}

// GetJPEGQuality returns the JPEG encoding quality
func (s *Settings) GetJPEGQuality() int {
	return s.intWithDefault(KeyJPEGQuality, DefaultJPEGQuality, 1, 100)
}

// SetJPEGQuality sets the JPEG encoding quality
func (s *Settings) SetJPEGQuality(quality int) {
	s.setClampedInt(KeyJPEGQuality, quality, 1, 100)
}

// GetPollInterval returns the Pages build poll interval
func (s *Settings) GetPollInterval() time.Duration {
	return time.Duration(s.intWithDefault(KeyPollInterval, DefaultPollInterval, 1, 60)) * time.Second
}

// SetPollInterval sets the Pages build poll interval in seconds
func (s *Settings) SetPollInterval(seconds int) {
	s.setClampedInt(KeyPollInterval, seconds, 1, 60)
}

// GetPollAttempts returns the Pages build attempt budget
func (s *Settings) GetPollAttempts() int {
	return s.intWithDefault(KeyPollAttempts, DefaultPollAttempts, 1, 1000)
}

// SetPollAttempts sets the Pages build attempt budget
func (s *Settings) SetPollAttempts(attempts int) {
	s.setClampedInt(KeyPollAttempts, attempts, 1, 1000)
}

// GetWarningThreshold returns the rate-limit warning threshold
func (s *Settings) GetWarningThreshold() int {
	return s.intWithDefault(KeyWarningLimit, DefaultWarningLimit, 1, 5000)
}

// SetWarningThreshold sets the rate-limit warning threshold
func (s *Settings) SetWarningThreshold(remaining int) {
	s.setClampedInt(KeyWarningLimit, remaining, 1, 5000)
}

// GetCriticalThreshold returns the rate-limit critical threshold
func (s *Settings) GetCriticalThreshold() int {
	return s.intWithDefault(KeyCriticalLimit, DefaultCriticalLimit, 1, 5000)
}

// SetCriticalThreshold sets the rate-limit critical threshold
func (s *Settings) SetCriticalThreshold(remaining int) {
	s.setClampedInt(KeyCriticalLimit, remaining, 1, 5000)
}

func (s *Settings) intWithDefault(key string, fallback, min, max int) int {
	value := s.app.Preferences().Int(key)
	if value < min || value > max {
		s.setClampedInt(key, fallback, min, max)
		return fallback
	}
	return value
}

func (s *Settings) setClampedInt(key string, value, min, max int) {
	if value < min {
		value = min
	}
	if value > max {
		value = max
	}
	s.app.Preferences().SetInt(key, value)
}
