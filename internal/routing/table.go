// Package routing maps pull request labels onto chat channels.
package routing

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"teamnotify/internal/config"
)

// Entry routes one label identifier to one destination channel.
type Entry struct {
	Label   string
	Channel string
}

// Table is an immutable label to channel lookup. The zero value routes nothing.
type Table struct {
	entries []Entry
	index   map[string]string
}

// NewTable builds a table from entries in order. When a label appears more than
// once the first entry wins; later duplicates stay visible in Entries but never
// resolve.
func NewTable(entries []Entry) Table {
	table := Table{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]string, len(entries)),
	}
	for _, entry := range entries {
		entry = Entry{Label: canonical(entry.Label), Channel: canonical(entry.Channel)}
		table.entries = append(table.entries, entry)
		if _, exists := table.index[entry.Label]; !exists {
			table.index[entry.Label] = entry.Channel
		}
	}
	return table
}

// FromConfig builds the table from the configured teams.
func FromConfig(teams []config.Team) Table {
	entries := make([]Entry, 0, len(teams))
	for _, team := range teams {
		entries = append(entries, Entry{Label: team.Label, Channel: team.Channel})
	}
	return NewTable(entries)
}

// Resolve returns the channel for an exact, case-sensitive label match.
func (t Table) Resolve(label string) (string, bool) {
	if t.index == nil {
		return "", false
	}
	channel, ok := t.index[canonical(label)]
	return channel, ok
}

// Entries returns the table in configuration order.
func (t Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Len reports the number of configured entries, duplicates included.
func (t Table) Len() int {
	return len(t.entries)
}

// Shadowed reports entries that can never resolve because an earlier entry
// already claims their label.
func (t Table) Shadowed() []Entry {
	seen := make(map[string]struct{}, len(t.entries))
	var shadowed []Entry
	for _, entry := range t.entries {
		if _, ok := seen[entry.Label]; ok {
			shadowed = append(shadowed, entry)
			continue
		}
		seen[entry.Label] = struct{}{}
	}
	return shadowed
}

// FilterNamespace keeps the labels that begin with prefix, preserving order.
func FilterNamespace(labels []string, prefix string) []string {
	filtered := make([]string, 0, len(labels))
	for _, label := range labels {
		if strings.HasPrefix(canonical(label), canonical(prefix)) {
			filtered = append(filtered, label)
		}
	}
	return filtered
}

// canonical folds identifiers to NFC so precomposed and decomposed accents
// compare equal. Case is preserved.
func canonical(value string) string {
	return norm.NFC.String(value)
}
