// Package chunk splits text payloads into fixed-size pieces and joins them
// back. Sizes count characters (runes), matching SQLite's LENGTH and SUBSTR
// on TEXT values, so a chunk never splits a multi-byte character.
//
// A byte that is not valid UTF-8 counts as one character and is carried
// through unchanged: Join(Split(s, n)) == s for every string s.
package chunk

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// DefaultSize is the chunk size of the wallet blob (512 KiB characters).
const DefaultSize = 512 * 1024

var ErrInvalidSize = errors.New("chunk size must be positive")

// Split cuts payload into chunks of size characters; the last chunk may be
// shorter. The empty payload yields a single empty chunk.
func Split(payload string, size int) ([]string, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	if payload == "" {
		return []string{""}, nil
	}

	chunks := make([]string, 0, utf8.RuneCountInString(payload)/size+1)
	start, count := 0, 0
	for i := 0; i < len(payload); {
		_, w := utf8.DecodeRuneInString(payload[i:])
		i += w
		count++
		if count == size {
			chunks = append(chunks, payload[start:i])
			start, count = i, 0
		}
	}
	if start < len(payload) {
		chunks = append(chunks, payload[start:])
	}
	return chunks, nil
}

// Join concatenates chunks in order.
func Join(chunks []string) string {
	return strings.Join(chunks, "")
}

// Len is the payload length in characters as Split counts them.
func Len(payload string) int {
	return utf8.RuneCountInString(payload)
}
