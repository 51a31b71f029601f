// Package wordlist loads practice vocabularies.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/bunbuntype/internal/model"
)

//go:embed default.txt
var defaultWords string

// LoadWords reads whitespace-separated words from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	words, err := ReadWords(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// ReadWords splits r into whitespace-separated tokens. Line structure carries
// no meaning.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, model.ErrEmptyVocabulary
	}
	return words, nil
}

// Default returns the embedded practice vocabulary.
func Default() []string {
	return strings.Fields(defaultWords)
}

// DefaultText returns the embedded vocabulary as stored, one word per line.
func DefaultText() string {
	return defaultWords
}
