package mkbparser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidEncoding is returned for input that is not UTF-8 when no fallback is configured
var ErrInvalidEncoding = errors.New("input is not valid UTF-8")

// Single-byte encodings seen in MKB-10 exports
var charmaps = map[string]encoding.Encoding{
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"iso-8859-5":   charmap.ISO8859_5,
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"koi8-r":       charmap.KOI8R,
	"cp866":        charmap.CodePage866,
}

// lookupEncoding resolves an encoding name, falling back to the WHATWG labels
func lookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := charmaps[key]; ok {
		return enc, nil
	}
	enc, err := htmlindex.Get(key)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return enc, nil
}

// decodeSource returns raw as UTF-8 without a byte order mark.
// Input that is not UTF-8 is decoded from fallback, or rejected when fallback is empty.
func decodeSource(raw []byte, fallback string) ([]byte, error) {
	if utf8.Valid(raw) {
		out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode UTF-8: %w", err)
		}
		return out, nil
	}

	if fallback == "" {
		return nil, ErrInvalidEncoding
	}

	enc, err := lookupEncoding(fallback)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", fallback, err)
	}
	return out, nil
}
