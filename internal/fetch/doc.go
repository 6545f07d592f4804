package fetch

// Package fetch implements the concurrent thumbnail pipeline: a bounded
// worker pool that downloads and decodes a batch of remote images, emitting
// per-item completions out of order and supporting cooperative mid-flight
// cancellation. A pipeline is single-use; the gallery view serializes
// pipelines per view.
