// Package logging provides the console logger used by the metric_plotter commands.
//
// Loaders and renderers take the small Logger interface so tests and library
// callers can pass NullLogger.
package logging
