// Package server exposes the dashboard over HTTP: the page, a JSON API that
// drives the per-session controller, stateless exports, health and metrics.
package server
