package model

// Package model defines domain data structures shared across the app: gallery
// items, task status enums, and GitHub Pages build states. Structures are
// designed for direct binding in the UI and explicit state transitions.
