package payload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		locale   string
		expected Payload
	}{
		{
			name:   "mapping of locales",
			body:   `{"en":{"a":"1"},"de":{"a":"eins"}}`,
			locale: "",
			expected: Payload{
				{Locale: "en", Value: []byte(`{"a":"1"}`)},
				{Locale: "de", Value: []byte(`{"a":"eins"}`)},
			},
		},
		{
			name:   "single locale wraps whole document",
			body:   `{"hello":"bonjour"}`,
			locale: "fr",
			expected: Payload{
				{Locale: "fr", Value: []byte(`{"hello":"bonjour"}`)},
			},
		},
		{
			name:   "single locale accepts non-object documents",
			body:   `["a", "b"]`,
			locale: "en",
			expected: Payload{
				{Locale: "en", Value: []byte(`["a","b"]`)},
			},
		},
		{
			name:   "whitespace is compacted",
			body:   "{\n  \"en\": { \"greeting\": \"Hello, world\" }\n}\n",
			locale: "",
			expected: Payload{
				{Locale: "en", Value: []byte(`{"greeting":"Hello, world"}`)},
			},
		},
		{
			name:   "duplicate key keeps first position and last value",
			body:   `{"en":1,"de":2,"en":3}`,
			locale: "",
			expected: Payload{
				{Locale: "en", Value: []byte(`3`)},
				{Locale: "de", Value: []byte(`2`)},
			},
		},
		{
			name:     "empty object",
			body:     `{}`,
			locale:   "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build([]byte(tt.body), tt.locale)
			require.NoError(t, err)
			require.Len(t, p, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i].Locale, p[i].Locale)
				assert.JSONEq(t, string(tt.expected[i].Value), string(p[i].Value))
				assert.Equal(t, string(tt.expected[i].Value), string(p[i].Value))
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		locale    string
		notObject bool
	}{
		{name: "malformed JSON", body: `{"en":`},
		{name: "malformed JSON with locale", body: `not json`, locale: "en"},
		{name: "empty body", body: ``},
		{name: "array without locale", body: `["en"]`, notObject: true},
		{name: "string without locale", body: `"en"`, notObject: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build([]byte(tt.body), tt.locale)
			assert.Nil(t, p)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.notObject, errors.Is(err, ErrNotObject))
		})
	}
}

func TestLocales(t *testing.T) {
	p := Payload{{Locale: "en"}, {Locale: "fr"}}
	assert.Equal(t, []string{"en", "fr"}, p.Locales())
	assert.Empty(t, Payload(nil).Locales())
}
