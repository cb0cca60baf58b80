// Package payload turns a Loco export body into per-locale JSON documents.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrNotObject is wrapped by ParseError when a locale mapping was expected
// but the document is some other JSON value.
var ErrNotObject = errors.New("top-level value is not an object")

// ParseError reports an export body that cannot be used.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse translations: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Entry is one locale and its translations, compact-encoded.
type Entry struct {
	Locale string
	Value  json.RawMessage
}

// Payload is the ordered set of locales to write. Order follows the
// export document.
type Payload []Entry

// Locales returns the locale keys in order.
func (p Payload) Locales() []string {
	locales := make([]string, len(p))
	for i, e := range p {
		locales[i] = e.Locale
	}
	return locales
}

// Decode validates body as a single JSON value and returns it compacted.
func Decode(body []byte) (json.RawMessage, error) {
	if !gjson.ValidBytes(body) {
		return nil, &ParseError{Err: errors.New("invalid JSON")}
	}
	return compact(body)
}

// Wrap nests a whole document under a single locale.
func Wrap(locale string, doc json.RawMessage) Payload {
	return Payload{{Locale: locale, Value: doc}}
}

// Split reads doc as a locale → translations mapping. A key repeated in the
// document keeps its first position and its last value.
func Split(doc json.RawMessage) (Payload, error) {
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, &ParseError{Err: ErrNotObject}
	}

	var (
		p     Payload
		index = map[string]int{}
		err   error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		var raw json.RawMessage
		raw, err = compact([]byte(value.Raw))
		if err != nil {
			return false
		}
		locale := key.String()
		if i, ok := index[locale]; ok {
			p[i].Value = raw
			return true
		}
		index[locale] = len(p)
		p = append(p, Entry{Locale: locale, Value: raw})
		return true
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Build decodes body and shapes it for writing. With a locale the whole
// document is wrapped under it; otherwise it must be a locale mapping.
func Build(body []byte, locale string) (Payload, error) {
	doc, err := Decode(body)
	if err != nil {
		return nil, err
	}
	if locale != "" {
		return Wrap(locale, doc), nil
	}
	return Split(doc)
}

func compact(raw []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, &ParseError{Err: err}
	}
	return buf.Bytes(), nil
}
