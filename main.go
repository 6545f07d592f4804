package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lifetime-memories/repogallery/internal/cache"
	"github.com/lifetime-memories/repogallery/internal/config"
	"github.com/lifetime-memories/repogallery/internal/gallery"
	"github.com/lifetime-memories/repogallery/internal/githubapi"
	"github.com/lifetime-memories/repogallery/internal/pages"
	"github.com/lifetime-memories/repogallery/internal/platform"
	"github.com/lifetime-memories/repogallery/internal/rate"
	"github.com/lifetime-memories/repogallery/internal/ui"
	"github.com/lifetime-memories/repogallery/internal/upload"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.lifetime-memories.repogallery"
	AppName = "Repo Gallery"

	WindowWidth  = 1000
	WindowHeight = 700

	LogDir      = "logs"
	LogFile     = "logs/repogallery.log"
	LogMaxSize  = 10 // megabytes
	LogMaxFiles = 3
)

func main() {
	setupLogging()
	log.Info().Str("version", version).Msg("repogallery starting")

	myApp := app.NewWithID(AppID)
	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	token := config.LoadToken()
	if token == "" {
		log.Warn().Msg("no GITHUB_TOKEN configured, API access is read-only and heavily rate limited")
	}

	repoCache := cache.NewRepoCache(settings.GetCacheTTL(), settings.GetCacheMaxItems(), settings.GetCacheEnabled())
	limits := rate.NewTracker(settings.GetWarningThreshold(), settings.GetCriticalThreshold())

	client, err := githubapi.NewClient(githubapi.Options{
		Org:    settings.GetOrganization(),
		Token:  token,
		Cache:  repoCache,
		Limits: limits,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create GitHub client")
	}

	view := gallery.NewView(client, settings.GetMaxWorkers(), settings.GetFetchTimeout(), nil)
	uploads := upload.NewService(client, settings.GetThumbnailSize(), settings.GetJPEGQuality())
	pollers := pages.NewManager()

	// Create and setup UI
	ui.NewRootUI(myWindow, myApp, client, view, uploads, pollers)

	myWindow.SetOnClosed(func() {
		view.Clear()
		pollers.CancelAll()
	})

	// Show and run
	myWindow.ShowAndRun()
}

// setupLogging routes structured logs to the console and a rotating file.
func setupLogging() {
	if err := platform.EnsureDir(LogDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   LogFile,
		MaxSize:    LogMaxSize,
		MaxBackups: LogMaxFiles,
	}
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	log.Logger = zerolog.New(io.MultiWriter(consoleWriter, fileWriter)).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
