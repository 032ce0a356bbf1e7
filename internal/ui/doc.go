// Package ui provides theme and color support for the application's user
// interface. Themes are values passed to the presenters that need them,
// which keeps business logic free of color concerns.
package ui
