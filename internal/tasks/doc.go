// Package tasks orchestrates catalog operations with real-time progress reporting.
//
// # Core Operations
//
// [CatalogEngine] wraps a [services.Catalog] with three operations:
//
//  1. [CatalogEngine.Refresh] : Fetch the full song list
//     - The list replaces the caller's copy wholesale; there is no merge
//
//  2. [CatalogEngine.Upload] : Upload one local file, then re-fetch
//     - The file's base name is sent as the song name unless overridden
//
//  3. [CatalogEngine.BulkUpload] : Upload many files with a rate-limited worker pool
//     - Failures are collected per file and never abort the batch
//     - The catalog is re-fetched once at the end when at least one upload succeeded
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
