// Package moderation provides a blocklist-based query filter.
//
// The blocklist is a flat file of lowercase terms, one per line. Blank
// lines and lines starting with '#' are ignored. Matching is a plain
// case-insensitive substring check with no language awareness.
package moderation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/logger"
)

// Ensure Blocklist implements the interface.
var _ driven.QueryModerator = (*Blocklist)(nil)

// Blocklist filters queries against a set of blocked terms.
type Blocklist struct {
	mu    sync.RWMutex
	terms []string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewBlocklist creates a filter over the given terms. Terms are
// lowercased; empty terms are dropped.
func NewBlocklist(terms []string) *Blocklist {
	b := &Blocklist{}
	b.replace(terms)
	return b
}

// LoadBlocklist reads terms from a file and watches it for changes,
// reloading on every write. Call Close to stop watching.
func LoadBlocklist(path string) (*Blocklist, error) {
	terms, err := readTerms(path)
	if err != nil {
		return nil, err
	}

	b := NewBlocklist(terms)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("moderation: create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("moderation: watch %s: %w", path, err)
	}

	b.watcher = watcher
	b.done = make(chan struct{})
	go b.watch(path)

	return b, nil
}

// Blocked reports whether the text contains any blocked term.
func (b *Blocklist) Blocked(text string) bool {
	lowered := strings.ToLower(text)

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, term := range b.terms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// Len returns the number of blocked terms.
func (b *Blocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.terms)
}

// Close stops watching the blocklist file. Safe to call on a filter
// built from a static term list.
func (b *Blocklist) Close() error {
	if b.watcher == nil {
		return nil
	}
	close(b.done)
	return b.watcher.Close()
}

// replace swaps the term set.
func (b *Blocklist) replace(terms []string) {
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}

	b.mu.Lock()
	b.terms = cleaned
	b.mu.Unlock()
}

// watch reloads the blocklist when the file changes.
func (b *Blocklist) watch(path string) {
	for {
		select {
		case <-b.done:
			return
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			terms, err := readTerms(path)
			if err != nil {
				logger.Debug("moderation: reload %s: %v", path, err)
				continue
			}
			b.replace(terms)
			logger.Debug("moderation: reloaded %d terms from %s", len(terms), path)
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			logger.Debug("moderation: watch error: %v", err)
		}
	}
}

// readTerms parses a blocklist file.
func readTerms(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("moderation: open blocklist: %w", err)
	}
	defer f.Close()

	var terms []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("moderation: read blocklist: %w", err)
	}
	return terms, nil
}
