package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/vaultis/vaultis/ui"
)

// PromptInput shows an optional label and reads one line.
func PromptInput(u ui.UI, label string) string {
	if label != "" {
		u.Info(label)
	}
	return u.Ask(nil)
}

// PromptFilePath shows an optional label and reads a path, looping
// until it points at an existing file.
func PromptFilePath(u ui.UI, label string) string {
	if label != "" {
		u.Info(label)
	}
	return u.Ask(func(s string) error {
		info, err := os.Stat(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("couldn't access %s: %w", s, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory, not a file", s)
		}
		return nil
	})
}

// PromptItemInList shows a label and loops until the user enters one of options.
func PromptItemInList(u ui.UI, label string, options []string) string {
	if label != "" {
		u.Info(label)
	}
	return u.Ask(func(s string) error {
		s = strings.TrimSpace(s)
		for _, op := range options {
			if s == strings.TrimSpace(op) {
				return nil
			}
		}
		return fmt.Errorf("your input is not in the list")
	})
}
