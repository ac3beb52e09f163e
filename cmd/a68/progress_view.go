package main

import (
	"fmt"
	"os"
	"strings"
)

// progressView selects the live view `a68 check --ui` draws on stderr
// while a batch of sources is compiled.
type progressView uint8

const (
	progressAuto progressView = iota
	progressAlways
	progressNever
)

func (v progressView) String() string {
	switch v {
	case progressAlways:
		return "on"
	case progressNever:
		return "off"
	}
	return "auto"
}

// parseProgressView reads the --ui flag. "always" and "never" are accepted
// next to on and off.
func parseProgressView(flag string) (progressView, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", "auto":
		return progressAuto, nil
	case "on", "always":
		return progressAlways, nil
	case "off", "never":
		return progressNever, nil
	}
	return progressAuto, fmt.Errorf("--ui: unknown progress view %q, want auto, on or off", flag)
}

// showProgress: in auto mode the view appears only for more than one
// source and a terminal on stderr, where the view is drawn.
func (v progressView) showProgress(sources int) bool {
	switch v {
	case progressAlways:
		return true
	case progressNever:
		return false
	}
	if sources < 2 || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(os.Stderr)
}
