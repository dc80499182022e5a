// Package tui is the terminal front end of the dashboard: a bubbletea
// program over the same controller the web server uses.
package tui
