package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/refdeck/refdeck/internal/app"
	"github.com/refdeck/refdeck/internal/config"
)

// openApp locates the deck and builds the application root. assumeYes
// skips interactive confirmation of destructive operations.
func openApp(assumeYes bool) (*app.App, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	root, err := config.FindDeck(cwd)
	if err != nil {
		return nil, err
	}

	opts := app.Options{}
	if !assumeYes {
		opts.Confirm = promptConfirm
	}
	return app.Open(root, opts)
}

// promptConfirm asks on the terminal and accepts y/yes.
func promptConfirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

// parseID parses a record id argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid record id %q", arg)
	}
	return id, nil
}
