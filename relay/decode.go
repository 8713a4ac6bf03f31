package relay

import (
	"encoding/json"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/batchcorp/streamsink/types"
)

var (
	ErrEmptyPayload   = errors.New("payload is empty")
	ErrInvalidUTF8    = errors.New("payload is not valid UTF-8")
	ErrNotJSONObject  = errors.New("payload is not a JSON object")
	ErrInvalidPayload = errors.New("payload is not valid JSON")
)

var decoder = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Decode turns a raw record value into a Record. The value must be UTF-8
// text containing exactly one JSON object. Integral numbers that fit into an
// int64 are kept as int64 so that they are stored as integers, everything
// else numeric becomes a float64.
//
// A value that does not open with '{' is ErrNotJSONObject regardless of
// whether it parses; any other decode failure is ErrInvalidPayload.
func Decode(value []byte) (types.Record, error) {
	if len(value) == 0 {
		return nil, ErrEmptyPayload
	}

	if !utf8.Valid(value) {
		return nil, ErrInvalidUTF8
	}

	if firstToken(value) != '{' {
		return nil, ErrNotJSONObject
	}

	var record map[string]interface{}

	if err := decoder.Unmarshal(value, &record); err != nil {
		return nil, errors.Wrap(ErrInvalidPayload, err.Error())
	}

	if record == nil {
		return nil, ErrNotJSONObject
	}

	return types.Record(normalizeMap(record)), nil
}

// firstToken returns the first byte that is not JSON whitespace, or 0
func firstToken(value []byte) byte {
	for _, b := range value {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}

		return b
	}

	return 0
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	for k, v := range m {
		m[k] = normalize(v)
	}

	return m
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}

		if f, err := val.Float64(); err == nil {
			return f
		}

		return val.String()
	case map[string]interface{}:
		return normalizeMap(val)
	case []interface{}:
		for i := range val {
			val[i] = normalize(val[i])
		}

		return val
	}

	return v
}
