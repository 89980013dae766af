// Package transcript reads Claude Code session transcripts: append-only files
// holding one JSON record per line.
package transcript

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// RecordTypeUser is the record type tag for a human-authored turn
const RecordTypeUser = "user"

var (
	// ErrEmptyTranscript is returned when the transcript has no lines
	ErrEmptyTranscript = errors.New("transcript is empty")

	// ErrNoUserMessage is returned when no record carries an authored user message
	ErrNoUserMessage = errors.New("no user message in transcript")

	// ErrMalformedRecord is returned for a line that is not a JSON object,
	// including a partial line left by an in-progress append
	ErrMalformedRecord = errors.New("malformed transcript record")
)

// UserMessage returns the authored text carried by a single record line.
//
// Only records with type "user" whose message.content is a string qualify.
// Tool results are also logged as user records but carry a list, so they
// yield ErrNoUserMessage.
func UserMessage(line []byte) (string, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return "", ErrMalformedRecord
	}

	record := gjson.ParseBytes(trimmed)
	if !record.IsObject() {
		return "", ErrMalformedRecord
	}

	recordType := record.Get("type")
	if recordType.Type != gjson.String || recordType.Str != RecordTypeUser {
		return "", ErrNoUserMessage
	}

	content := record.Get("message.content")
	if content.Type != gjson.String {
		return "", ErrNoUserMessage
	}

	return content.Str, nil
}

// LastUserMessage returns the text of the most recent qualifying user message.
//
// The last line is checked first since it is the newest record; when it does
// not qualify the whole file is scanned forward and the last qualifying record
// wins. Malformed lines are skipped.
func LastUserMessage(path string) (string, error) {
	line, err := LastLine(path)
	if err != nil {
		return "", err
	}

	if text, err := UserMessage([]byte(line)); err == nil {
		return text, nil
	}

	return scanLastUserMessage(path)
}

func scanLastUserMessage(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open transcript; %w", err)
	}
	defer file.Close()

	var (
		last  string
		found bool
	)

	// bufio.Reader rather than Scanner: records can exceed the Scanner token limit
	reader := bufio.NewReader(file)
	for {
		lineBytes, err := reader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read transcript; %w", err)
		}

		if len(lineBytes) > 0 {
			if text, perr := UserMessage(lineBytes); perr == nil {
				last = text
				found = true
			}
		}

		if err == io.EOF {
			break
		}
	}

	if !found {
		return "", ErrNoUserMessage
	}

	return last, nil
}

// EndsWithMarker reports whether the last user message in the transcript at
// path ends with marker. Every failure reads as false.
//
// It answers for a single marker. Callers testing several markers against one
// transcript read it once with LastUserMessage and call HasMarker per marker.
func EndsWithMarker(path, marker string) bool {
	if path == "" {
		return false
	}

	text, err := LastUserMessage(path)
	if err != nil {
		return false
	}

	return HasMarker(text, marker)
}

// HasMarker reports whether text, with trailing whitespace removed, ends with marker
func HasMarker(text, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.HasSuffix(strings.TrimRightFunc(text, unicode.IsSpace), marker)
}
