package ui

import (
	"context"
	"fmt"
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"github.com/lifetime-memories/repogallery/internal/config"
	"github.com/lifetime-memories/repogallery/internal/gallery"
	"github.com/lifetime-memories/repogallery/internal/githubapi"
	"github.com/lifetime-memories/repogallery/internal/layout"
	"github.com/lifetime-memories/repogallery/internal/model"
	"github.com/lifetime-memories/repogallery/internal/pages"
	"github.com/lifetime-memories/repogallery/internal/platform"
	"github.com/lifetime-memories/repogallery/internal/rate"
	"github.com/lifetime-memories/repogallery/internal/upload"
)

// UI constants
const (
	SidebarWidth      = 220
	RequestTimeout    = 30 * time.Second
	StatusIdleMessage = "Ready"
)

// RootUI represents the main UI structure
type RootUI struct {
	window   fyne.Window
	settings *config.Settings
	client   *githubapi.Client
	view     *gallery.View
	uploads  *upload.Service
	pollers  *pages.Manager

	repos        []githubapi.Repository
	selectedRepo string

	repoList     *widget.List
	galleryBox   *fyne.Container
	galleryCards []*PhotoCard
	scroll       *container.Scroll

	statusLabel *widget.Label
	rateLabel   *widget.Label
	cacheLabel  *widget.Label
	publishBtn  *widget.Button
	uploadBtn   *widget.Button
	deleteBtn   *widget.Button
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, client *githubapi.Client, view *gallery.View, uploads *upload.Service, pollers *pages.Manager) *RootUI {
	ui := &RootUI{
		window:      window,
		settings:    config.NewSettings(app),
		client:      client,
		view:        view,
		uploads:     uploads,
		pollers:     pollers,
		statusLabel: widget.NewLabel(StatusIdleMessage),
		rateLabel:   widget.NewLabel(""),
		cacheLabel:  widget.NewLabel(""),
	}

	view.SetEngine(ui.buildEngine())
	view.SetCallbacks(ui.onItemFetched, ui.onGalleryDone)
	uploads.SetUpdateCallback(ui.onUploadUpdate)

	ui.setupUI()
	ui.loadRepositories()
	return ui
}

func (ui *RootUI) setupUI() {
	ui.repoList = widget.NewList(
		func() int { return len(ui.repos) },
		func() fyne.CanvasObject { return widget.NewLabel("repository") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < len(ui.repos) {
				item.(*widget.Label).SetText(ui.repos[id].Name)
			}
		},
	)
	ui.repoList.OnSelected = ui.onRepoSelected

	newRepoBtn := widget.NewButton("New Album", ui.onNewRepoClick)
	ui.deleteBtn = widget.NewButton("Delete Album", ui.onDeleteRepoClick)
	ui.deleteBtn.Disable()
	refreshBtn := widget.NewButton("Refresh", func() {
		if repoCache := ui.client.Cache(); repoCache != nil {
			repoCache.InvalidateAll()
		}
		ui.loadRepositories()
		ui.reloadGallery()
	})
	sidebar := container.NewBorder(nil, container.NewVBox(newRepoBtn, ui.deleteBtn, refreshBtn), nil, nil, ui.repoList)

	ui.galleryBox = container.New(NewGalleryLayout(ui.view))
	ui.scroll = container.NewVScroll(ui.galleryBox)

	ui.uploadBtn = widget.NewButton("Upload Photos", ui.onUploadClick)
	ui.publishBtn = widget.NewButton("Publish Gallery", ui.onPublishClick)
	ui.uploadBtn.Disable()
	ui.publishBtn.Disable()
	toolbar := container.NewHBox(ui.uploadBtn, ui.publishBtn)

	statusBar := container.NewBorder(nil, nil, ui.statusLabel, container.NewHBox(ui.cacheLabel, ui.rateLabel))
	center := container.NewBorder(toolbar, statusBar, nil, nil, ui.scroll)

	split := container.NewHSplit(sidebar, center)
	split.SetOffset(float64(SidebarWidth) / float64(SidebarWidth*4))
	ui.window.SetContent(split)
}

// buildEngine maps the configured layout mode to an engine.
func (ui *RootUI) buildEngine() gallery.Engine {
	if ui.settings.GetLayoutMode() == config.LayoutMasonry {
		return layout.NewMasonry(ui.settings.GetMasonryColumns(), ui.settings.GetSpacing())
	}
	return layout.NewJustified(ui.settings.GetRowHeight(), ui.settings.GetSpacing())
}

func (ui *RootUI) loadRepositories() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()

		repos, err := ui.client.ListRepositories(ctx)
		fyne.Do(func() {
			if err != nil {
				ui.setStatus(fmt.Sprintf("Failed to load albums: %v", err))
				return
			}
			ui.repos = repos
			ui.repoList.Refresh()
			ui.setStatus(fmt.Sprintf("%d albums", len(repos)))
			ui.updateRateLabel()
		})
	}()
}

func (ui *RootUI) onRepoSelected(id widget.ListItemID) {
	if id >= len(ui.repos) {
		return
	}
	ui.selectedRepo = ui.repos[id].Name
	ui.uploadBtn.Enable()
	ui.publishBtn.Enable()
	ui.deleteBtn.Enable()
	ui.reloadGallery()
}

func (ui *RootUI) onDeleteRepoClick() {
	repo := ui.selectedRepo
	if repo == "" {
		return
	}
	dialog.ShowConfirm("Delete Album",
		fmt.Sprintf("Delete %q and all of its photos?", repo),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
				defer cancel()

				err := ui.client.DeleteRepository(ctx, repo)
				fyne.Do(func() { ui.afterRepoDeleted(repo, err) })
			}()
		}, ui.window)
}

// afterRepoDeleted resets the selection-dependent state once the repository
// is gone.
func (ui *RootUI) afterRepoDeleted(repo string, err error) {
	if err != nil {
		dialog.ShowError(err, ui.window)
		ui.setStatus(fmt.Sprintf("Failed to delete %s: %v", repo, err))
		return
	}
	if ui.selectedRepo == repo {
		ui.selectedRepo = ""
		ui.view.Clear()
		ui.galleryCards = ui.galleryCards[:0]
		ui.galleryBox.RemoveAll()
		ui.uploadBtn.Disable()
		ui.publishBtn.Disable()
		ui.deleteBtn.Disable()
		ui.repoList.UnselectAll()
	}
	ui.setStatus(fmt.Sprintf("Deleted %s", repo))
	ui.loadRepositories()
}

// reloadGallery lists the selected repository and starts a fresh fetch
// pipeline for its images. The card slice is rebuilt before the pipeline
// starts so completion callbacks always find their card.
func (ui *RootUI) reloadGallery() {
	repo := ui.selectedRepo
	if repo == "" {
		return
	}

	ui.setStatus(fmt.Sprintf("Loading %s...", repo))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()

		entries, err := ui.client.ListContents(ctx, repo, platform.ThumbnailDir)
		if err != nil {
			fyne.Do(func() { ui.setStatus(fmt.Sprintf("Failed to list %s: %v", repo, err)) })
			return
		}

		var files []githubapi.ContentEntry
		for _, entry := range entries {
			if entry.IsFile() && platform.IsSupportedImage(entry.Name) {
				files = append(files, entry)
			}
		}

		fyne.DoAndWait(func() {
			ui.galleryCards = ui.galleryCards[:0]
			ui.galleryBox.RemoveAll()
			for _, entry := range files {
				card := NewPhotoCard(entry.Name)
				ui.galleryCards = append(ui.galleryCards, card)
				ui.galleryBox.Add(card)
			}
			ui.updateRateLabel()
		})

		ui.view.Load(files)
	}()
}

// onItemFetched lands one pipeline completion on its card.
func (ui *RootUI) onItemFetched(index int, img image.Image, name string) {
	fyne.Do(func() {
		if index >= len(ui.galleryCards) {
			return
		}
		if img == nil {
			ui.galleryCards[index].SetFailed()
			return
		}
		ui.galleryCards[index].SetImage(img)
		ui.galleryBox.Refresh()
	})
}

func (ui *RootUI) onGalleryDone() {
	fyne.Do(func() {
		ui.galleryBox.Refresh()
		ui.scroll.Refresh()
		ui.setStatus(fmt.Sprintf("%s: %d photos", ui.selectedRepo, len(ui.galleryCards)))
	})
}

func (ui *RootUI) onNewRepoClick() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("album-name")
	dialog.ShowForm("New Album", "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(confirmed bool) {
			if !confirmed || entry.Text == "" {
				return
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
				defer cancel()

				_, err := ui.client.CreateRepository(ctx, entry.Text, "")
				fyne.Do(func() {
					if err != nil {
						dialog.ShowError(err, ui.window)
						return
					}
					ui.loadRepositories()
				})
			}()
		}, ui.window)
}

func (ui *RootUI) onUploadClick() {
	if ui.selectedRepo == "" {
		return
	}
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		if _, err := ui.uploads.AddTask(ui.selectedRepo, path); err != nil {
			dialog.ShowError(err, ui.window)
		}
	}, ui.window)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(platform.SupportedImageExtensions))
	fileDialog.Show()
}

// onUploadUpdate handles task updates from the upload service
func (ui *RootUI) onUploadUpdate(task *model.UploadTask) {
	name := task.GetDisplayName()
	status := task.Status
	percent := task.Percent
	lastError := task.LastError
	repo := task.RepoName

	fyne.Do(func() {
		switch {
		case status == model.TaskStatusCompleted:
			ui.setStatus(fmt.Sprintf("Uploaded %s", name))
			if repo == ui.selectedRepo {
				ui.reloadGallery()
			}
		case status == model.TaskStatusError:
			ui.setStatus(fmt.Sprintf("Upload of %s failed: %s", name, lastError))
		case status.IsActive():
			ui.setStatus(fmt.Sprintf("Uploading %s: %d%%", name, percent))
		}
		ui.updateRateLabel()
	})
}

// onPublishClick enables Pages for the selected repository and tracks the
// build until it finishes.
func (ui *RootUI) onPublishClick() {
	repo := ui.selectedRepo
	if repo == "" {
		return
	}
	ui.setStatus(fmt.Sprintf("Publishing %s...", repo))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
		defer cancel()

		// Enabling twice returns a conflict; the poll below still works.
		if err := ui.client.EnablePages(ctx, repo, ""); err != nil {
			log.Warn().Str("repo", repo).Err(err).Msg("enable pages")
		}

		status := func(ctx context.Context) (githubapi.PagesInfo, error) {
			return ui.client.PagesStatus(ctx, repo)
		}
		poller := pages.New(status, ui.settings.GetPollInterval(), ui.settings.GetPollAttempts())
		ui.pollers.Track(repo, poller)

		for event := range poller.Events() {
			state := event.State
			fyne.Do(func() {
				ui.setStatus(fmt.Sprintf("%s build: %s", repo, state))
				ui.updateRateLabel()
			})
		}

		outcome, ok := <-poller.Outcome()
		if !ok {
			return
		}
		fyne.Do(func() { ui.showBuildOutcome(repo, outcome) })
	}()
}

func (ui *RootUI) showBuildOutcome(repo string, outcome pages.Outcome) {
	switch outcome.State {
	case model.BuildSucceeded:
		ui.setStatus(fmt.Sprintf("%s published at %s", repo, outcome.URL))
		dialog.ShowInformation("Gallery Published", fmt.Sprintf("Your gallery is live:\n%s", outcome.URL), ui.window)
	case model.BuildTimedOut:
		ui.setStatus(fmt.Sprintf("%s build timed out", repo))
	default:
		ui.setStatus(fmt.Sprintf("%s build failed: %v", repo, outcome.Err))
	}
}

func (ui *RootUI) setStatus(message string) {
	ui.statusLabel.SetText(message)
}

// updateRateLabel surfaces the last observed API quota and cache occupancy.
func (ui *RootUI) updateRateLabel() {
	if repoCache := ui.client.Cache(); repoCache != nil {
		stats := repoCache.Stats()
		if stats.Enabled {
			ui.cacheLabel.SetText(fmt.Sprintf("Cache: %d", stats.Valid))
		} else {
			ui.cacheLabel.SetText("Cache: off")
		}
	}

	tracker := ui.client.RateLimits()
	if tracker == nil {
		return
	}
	snapshot := tracker.Snapshot()
	if !snapshot.Observed {
		return
	}

	text := fmt.Sprintf("API: %d left", snapshot.Remaining)
	switch tracker.Level() {
	case rate.LevelCritical:
		text += " (critical)"
	case rate.LevelWarning:
		text += " (low)"
	}
	ui.rateLabel.SetText(text)
}
