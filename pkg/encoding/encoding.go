// Package encoding provides text codecs for the NUL-terminated strings stored in SBM files.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned by Lookup for labels x/text does not know.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// UTF8 stores names as their raw Go string bytes.
var UTF8 = Codec{name: "utf-8"}

// Codec converts between Go strings and the byte form written to disk.
// The zero value behaves like UTF8.
type Codec struct {
	name string
	enc  xencoding.Encoding // nil means passthrough
}

// Lookup returns the codec for a WHATWG encoding label such as
// "utf-8", "windows-1252", "euc-kr" or "shift_jis".
func Lookup(label string) (Codec, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "", "utf-8", "utf8":
		return UTF8, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return Codec{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	if name == "utf-8" {
		return UTF8, nil
	}
	return Codec{name: name, enc: enc}, nil
}

// Name returns the canonical label of the codec.
func (c Codec) Name() string {
	if c.name == "" {
		return UTF8.name
	}
	return c.name
}

// Encode converts a UTF-8 string to the codec's byte form.
func (c Codec) Encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}
	out, _, err := transform.Bytes(c.enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %q as %s: %w", s, c.Name(), err)
	}
	return out, nil
}

// Decode converts bytes in the codec's form to a UTF-8 string.
func (c Codec) Decode(data []byte) (string, error) {
	if c.enc == nil {
		return string(data), nil
	}
	out, _, err := transform.Bytes(c.enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", c.Name(), err)
	}
	return string(out), nil
}

// CString returns data up to (not including) the first NUL byte.
func CString(data []byte) []byte {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return data[:i]
	}
	return data
}
