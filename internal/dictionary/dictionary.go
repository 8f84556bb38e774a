package dictionary

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed words.txt
var embedded []byte

// Dictionary is the process-wide word index. Loaded once at startup,
// immutable after, safe for concurrent reads from every room.
type Dictionary struct {
	words map[string]struct{}
}

// Load builds the index from the file at path, or from the embedded list
// when path is empty. A load failure is fatal for the caller: the server
// must not serve games without a dictionary.
func Load(path string) (*Dictionary, error) {
	var r io.Reader
	if path == "" {
		r = bytes.NewReader(embedded)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dictionary: %w", err)
		}
		defer f.Close()
		r = f
	}

	d := &Dictionary{words: make(map[string]struct{})}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if len(word) < 2 || !alphabetic(word) {
			continue
		}
		d.words[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	if len(d.words) == 0 {
		return nil, fmt.Errorf("dictionary is empty")
	}
	return d, nil
}

// Contains reports whether word is playable. Case-insensitive; no partial
// or fuzzy matching.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[strings.ToLower(word)]
	return ok
}

func (d *Dictionary) Size() int { return len(d.words) }

func alphabetic(word string) bool {
	for _, r := range word {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
