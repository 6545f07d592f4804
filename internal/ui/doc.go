package ui

// Package ui contains the Fyne-based desktop user interface for the
// application. It wires user interactions to the GitHub client, the gallery
// view, the upload service and the Pages build poller, and renders the photo
// grid, repository list and status bar.
