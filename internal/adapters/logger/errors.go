package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// zerr errors implement it.
type messager interface {
	Message() string
}

// metadataer describes an error carrying structured context fields.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries flattens err into the messages of its chain, outermost first.
// Joined errors contribute the entries of each member in order. A standard error
// ends the chain with its full message.
func collectErrorEntries(err error) []ErrorEntry {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var entries []ErrorEntry
		for _, member := range joined.Unwrap() {
			entries = append(entries, collectErrorEntries(member)...)
		}
		return entries
	}

	m, ok := err.(messager)
	if !ok {
		return []ErrorEntry{{Message: err.Error()}}
	}

	entry := ErrorEntry{Message: m.Message()}
	if md, ok := err.(metadataer); ok {
		entry.Metadata = md.Metadata()
	}
	return append([]ErrorEntry{entry}, collectErrorEntries(errors.Unwrap(err))...)
}

// formatErrorEntries renders entries as a headline followed by an indented cause list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var first, cont string
		if i == 0 {
			first = "Error: "
			cont = "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			first = "    → "
			cont = "      "
		}

		lines = append(lines, first+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, cont+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", cont, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
