package transcript

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// readChunkSize is the number of bytes read per step when scanning backward
const readChunkSize = 4096

// LastLine returns the final line of the transcript at path by reading backward
// from the end of the file, so only the last line is held in memory.
//
// If the file ends with a line terminator, the line preceding it is returned.
// An empty file yields ErrEmptyTranscript.
func LastLine(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open transcript; %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat transcript; %w", err)
	}

	return lastLine(file, info.Size(), readChunkSize)
}

// lastLine scans r backward in chunks of chunkSize bytes
func lastLine(r io.ReaderAt, size int64, chunkSize int) (string, error) {
	if size <= 0 {
		return "", ErrEmptyTranscript
	}

	end := size

	// A single trailing terminator belongs to the last line
	tail := make([]byte, 1)
	if err := readFull(r, tail, end-1); err != nil {
		return "", err
	}
	if tail[0] == '\n' {
		end--
	}

	// Chunks are collected back to front and joined once the line start is found
	var parts [][]byte
	chunk := make([]byte, chunkSize)

	for pos := end; pos > 0; {
		n := int64(chunkSize)
		if pos < n {
			n = pos
		}
		pos -= n

		buf := chunk[:n]
		if err := readFull(r, buf, pos); err != nil {
			return "", err
		}

		if idx := bytes.LastIndexByte(buf, '\n'); idx >= 0 {
			parts = append(parts, bytes.Clone(buf[idx+1:]))
			break
		}
		parts = append(parts, bytes.Clone(buf))
	}

	var line bytes.Buffer
	for i := len(parts) - 1; i >= 0; i-- {
		line.Write(parts[i])
	}

	return string(bytes.TrimSuffix(line.Bytes(), []byte("\r"))), nil
}

func readFull(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n < len(buf) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("failed to read transcript at offset %d; %w", off, err)
	}
	return nil
}
