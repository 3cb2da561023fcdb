// Package container provides read access to ZIP-based document packages
// (OOXML and similar formats). It exposes named-entry lookup by exact
// path or pattern, preserving numeric entry order so slide sequences stay
// stable.
package container

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidContainer indicates the input bytes are not a valid ZIP
// archive.
var ErrInvalidContainer = errors.New("container: not a valid zip archive")

// DecodeError indicates an entry's bytes could not be decoded as text.
type DecodeError struct {
	Entry string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("container: decoding entry %s: %v", e.Entry, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Container is an opened ZIP document package.
type Container struct {
	zr *zip.Reader
}

// Open opens a document package from raw bytes.
func Open(data []byte) (*Container, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}
	return &Container{zr: zr}, nil
}

// Entry is a single file inside the container.
type Entry struct {
	f *zip.File
}

// Name returns the entry's full internal path.
func (e Entry) Name() string { return e.f.Name }

// Size returns the uncompressed size of the entry.
func (e Entry) Size() int64 { return int64(e.f.UncompressedSize64) }

// ReadBytes decompresses and returns the entry's content.
func (e Entry) ReadBytes() ([]byte, error) {
	rc, err := e.f.Open()
	if err != nil {
		return nil, fmt.Errorf("container: opening entry %s: %w", e.f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ReadText decodes the entry as text. UTF-8 (with or without BOM) and
// BOM-marked UTF-16 are supported; anything else fails with a
// *DecodeError.
func (e Entry) ReadText() (string, error) {
	data, err := e.ReadBytes()
	if err != nil {
		return "", err
	}
	text, err := decodeText(data)
	if err != nil {
		return "", &DecodeError{Entry: e.f.Name, Err: err}
	}
	return text, nil
}

func decodeText(data []byte) (string, error) {
	// BOM-marked UTF-16 entries occasionally appear in packages written
	// by older tooling.
	if len(data) >= 2 &&
		((data[0] == 0xfe && data[1] == 0xff) || (data[0] == 0xff && data[1] == 0xfe)) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})
	if !utf8.Valid(data) {
		return "", errors.New("invalid UTF-8")
	}
	return string(data), nil
}

// Entry looks up a single entry by exact path.
func (c *Container) Entry(name string) (Entry, bool) {
	for _, f := range c.zr.File {
		if f.Name == name {
			return Entry{f: f}, true
		}
	}
	return Entry{}, false
}

// FindEntries returns all entries whose path matches pattern, ordered by
// the numeric suffix of the path (slide2.xml before slide10.xml) and then
// lexically. Numeric order keeps slide sequences deterministic.
func (c *Container) FindEntries(pattern *regexp.Regexp) []Entry {
	var entries []Entry
	for _, f := range c.zr.File {
		if pattern.MatchString(f.Name) {
			entries = append(entries, Entry{f: f})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ni, nj := entryNumber(entries[i].f.Name), entryNumber(entries[j].f.Name)
		if ni != nj {
			return ni < nj
		}
		return entries[i].f.Name < entries[j].f.Name
	})
	return entries
}

// entryNumber extracts the last run of digits from a path, so that
// "ppt/slides/slide12.xml" sorts after "ppt/slides/slide2.xml".
func entryNumber(name string) int {
	num, mult := 0, 1
	seen := false
	for i := len(name) - 1; i >= 0; i-- {
		b := name[i]
		if b >= '0' && b <= '9' {
			num += int(b-'0') * mult
			mult *= 10
			seen = true
		} else if seen {
			break
		}
	}
	if !seen {
		return -1
	}
	return num
}
