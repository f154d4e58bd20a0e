// Package main is the entry point for the textclean CLI.
package main

import (
	"os"

	"github.com/aalekhpatel07/text-cleaner/cmd/textclean/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
