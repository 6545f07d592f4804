package config

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestOrganization(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	if org := settings.GetOrganization(); org != DefaultOrganization {
		t.Errorf("Expected default organization %s, got %s", DefaultOrganization, org)
	}

	// Test setting custom value
	settings.SetOrganization("family-archive")
	if org := settings.GetOrganization(); org != "family-archive" {
		t.Errorf("Expected organization family-archive, got %s", org)
	}
}

func TestLayoutMode(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	if mode := settings.GetLayoutMode(); mode != LayoutJustified {
		t.Errorf("Expected default layout %s, got %s", LayoutJustified, mode)
	}

	settings.SetLayoutMode(LayoutMasonry)
	if mode := settings.GetLayoutMode(); mode != LayoutMasonry {
		t.Errorf("Expected layout %s, got %s", LayoutMasonry, mode)
	}

	// An unrecognized stored value falls back to the default
	app.Preferences().SetString(KeyLayoutMode, "spiral")
	if mode := settings.GetLayoutMode(); mode != DefaultLayoutMode {
		t.Errorf("Expected fallback to %s, got %s", DefaultLayoutMode, mode)
	}

	if got := len(settings.GetLayoutModeOptions()); got != 2 {
		t.Errorf("Expected 2 layout options, got %d", got)
	}
}

func TestRowHeight(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if height := settings.GetRowHeight(); height != DefaultRowHeight {
		t.Errorf("Expected default row height %d, got %d", DefaultRowHeight, height)
	}

	settings.SetRowHeight(180)
	if height := settings.GetRowHeight(); height != 180 {
		t.Errorf("Expected row height 180, got %d", height)
	}

	// Test boundary values
	settings.SetRowHeight(5) // Should be clamped to 40
	if settings.GetRowHeight() != 40 {
		t.Error("Row height should be clamped to minimum 40")
	}

	settings.SetRowHeight(10000) // Should be clamped to 600
	if settings.GetRowHeight() != 600 {
		t.Error("Row height should be clamped to maximum 600")
	}
}

func TestSpacing(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if spacing := settings.GetSpacing(); spacing != DefaultSpacing {
		t.Errorf("Expected default spacing %d, got %d", DefaultSpacing, spacing)
	}

	// Zero spacing is a valid choice
	settings.SetSpacing(0)
	if spacing := settings.GetSpacing(); spacing != 0 {
		t.Errorf("Expected spacing 0, got %d", spacing)
	}

	settings.SetSpacing(-3) // Should be clamped to 0
	if settings.GetSpacing() != 0 {
		t.Error("Spacing should be clamped to minimum 0")
	}
}

func TestMaxWorkers(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if workers := settings.GetMaxWorkers(); workers != DefaultMaxWorkers {
		t.Errorf("Expected default max workers %d, got %d", DefaultMaxWorkers, workers)
	}

	settings.SetMaxWorkers(0) // Should be clamped to 1
	if settings.GetMaxWorkers() != 1 {
		t.Error("Max workers should be clamped to minimum 1")
	}

	settings.SetMaxWorkers(100) // Should be clamped to 32
	if settings.GetMaxWorkers() != 32 {
		t.Error("Max workers should be clamped to maximum 32")
	}
}

func TestDurationSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if timeout := settings.GetFetchTimeout(); timeout != time.Duration(DefaultFetchTimeout)*time.Second {
		t.Errorf("Expected default fetch timeout, got %v", timeout)
	}
	settings.SetFetchTimeout(30)
	if timeout := settings.GetFetchTimeout(); timeout != 30*time.Second {
		t.Errorf("Expected 30s fetch timeout, got %v", timeout)
	}

	if ttl := settings.GetCacheTTL(); ttl != time.Duration(DefaultCacheTTL)*time.Second {
		t.Errorf("Expected default cache TTL, got %v", ttl)
	}

	if interval := settings.GetPollInterval(); interval != time.Duration(DefaultPollInterval)*time.Second {
		t.Errorf("Expected default poll interval, got %v", interval)
	}
	settings.SetPollInterval(120) // Should be clamped to 60
	if interval := settings.GetPollInterval(); interval != 60*time.Second {
		t.Errorf("Expected clamped 60s poll interval, got %v", interval)
	}
}

func TestCacheSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if !settings.GetCacheEnabled() {
		t.Error("Cache should be enabled by default")
	}
	settings.SetCacheEnabled(false)
	if settings.GetCacheEnabled() {
		t.Error("Cache should be disabled after SetCacheEnabled(false)")
	}

	if items := settings.GetCacheMaxItems(); items != DefaultCacheMaxItems {
		t.Errorf("Expected default cache capacity %d, got %d", DefaultCacheMaxItems, items)
	}
}

func TestRateThresholds(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if warn := settings.GetWarningThreshold(); warn != DefaultWarningLimit {
		t.Errorf("Expected default warning threshold %d, got %d", DefaultWarningLimit, warn)
	}
	if crit := settings.GetCriticalThreshold(); crit != DefaultCriticalLimit {
		t.Errorf("Expected default critical threshold %d, got %d", DefaultCriticalLimit, crit)
	}

	settings.SetWarningThreshold(250)
	if warn := settings.GetWarningThreshold(); warn != 250 {
		t.Errorf("Expected warning threshold 250, got %d", warn)
	}
}

func TestUploadSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if size := settings.GetThumbnailSize(); size != DefaultThumbnailSize {
		t.Errorf("Expected default thumbnail size %d, got %d", DefaultThumbnailSize, size)
	}
	if quality := settings.GetJPEGQuality(); quality != DefaultJPEGQuality {
		t.Errorf("Expected default JPEG quality %d, got %d", DefaultJPEGQuality, quality)
	}

	settings.SetJPEGQuality(200) // Should be clamped to 100
	if settings.GetJPEGQuality() != 100 {
		t.Error("JPEG quality should be clamped to maximum 100")
	}
}
