// Package main is the entry point for the provision CLI.
//
// provision installs a curated catalog of developer tools through the
// system package manager (winget, Homebrew or apt), sequentially or with a
// bounded worker pool, skipping items that are already present.
//
// For detailed usage information, run:
//
//	provision --help
package main

import (
	"context"
	"os"

	"github.com/agbru/provision/internal/app"
)

func main() {
	application := app.New(os.Stdout, os.Stderr)
	os.Exit(application.Execute(context.Background(), os.Args[1:]))
}
