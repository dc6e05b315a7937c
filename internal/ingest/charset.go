package ingest

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
)

// DetectEncoding detects the encoding of a byte buffer. Swedish price
// exports are either UTF-8 or Windows-1252 (Latin-1 superset), where
// å, ä and ö land in the 0x80-0xFF range and break UTF-8 validity.
func DetectEncoding(data []byte) Encoding {
	// Check for UTF-8 BOM
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts a byte buffer from the specified encoding to a UTF-8
// string. BOMs are stripped.
func Decode(data []byte, enc Encoding) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	// Valid UTF-8 passes through whatever encoding was claimed, which
	// avoids double decoding when the sender mislabels the file.
	if utf8.Valid(data) {
		return string(data), nil
	}

	if enc == EncodingWindows1252 || enc == "" {
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()))
		if err != nil {
			return "", fmt.Errorf("error decoding windows-1252: %w", err)
		}
		return string(decoded), nil
	}

	return "", fmt.Errorf("content is not valid %s", enc)
}
