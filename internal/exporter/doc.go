// Package exporter turns processed tables into downloadable bytes: UTF-8
// CSV encoding (with optional BOM for Excel), ZIP archive bundling, and a
// small directory writer used by the offline CLI.
package exporter
