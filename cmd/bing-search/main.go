// Package main provides the entry point for the bing-search CLI.
package main

import (
	"os"

	"github.com/kitbuilder587/bing-search/cmd/bing-search/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
