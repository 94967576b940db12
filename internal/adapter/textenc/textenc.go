// Package textenc converts between UTF-8 and the legacy Korean encoding
// (EUC-KR, as written by older spreadsheet tools) used for catalog imports
// and ledger exports.
package textenc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported encoding names
const (
	UTF8  = "utf-8"
	EUCKR = "euc-kr"
)

// Normalize maps accepted spellings to UTF8 or EUCKR. Empty means UTF8.
func Normalize(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "euc-kr", "euckr", "cp949":
		return EUCKR, nil
	}
	return "", fmt.Errorf("unsupported encoding %q: must be utf-8 or euc-kr", name)
}

func lookup(name string) (encoding.Encoding, error) {
	n, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	if n == EUCKR {
		return korean.EUCKR, nil
	}
	// strips a leading BOM when decoding
	return unicode.UTF8BOM, nil
}

// NewReader decodes r from the named encoding into UTF-8
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Encode converts UTF-8 text into the named encoding. Characters the target
// cannot represent are an error rather than being replaced silently.
func Encode(data []byte, name string) ([]byte, error) {
	n, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	if n == UTF8 {
		return data, nil
	}
	out, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode as %s: %w", n, err)
	}
	return out, nil
}
