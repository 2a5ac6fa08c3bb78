// Package convert holds converter pairs for common model/display pairings.
// Each pair's OnWrite inverts its OnRead for well-formed input.
package convert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/delaneyj/bindparty/binding"
)

var ErrUnsupportedType = errors.New("convert: unsupported type")

// Int shows an int as decimal text and parses it back.
func Int() binding.Converters {
	return binding.Converters{
		OnRead: func(v any) (any, error) {
			n, err := toInt64(v)
			if err != nil {
				return nil, err
			}
			return strconv.FormatInt(n, 10), nil
		},
		OnWrite: func(v any) (any, error) {
			s, err := toString(v)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return nil, err
			}
			return n, nil
		},
	}
}

// Comma shows an int with thousands separators ("1,234,567").
func Comma() binding.Converters {
	return binding.Converters{
		OnRead: func(v any) (any, error) {
			n, err := toInt64(v)
			if err != nil {
				return nil, err
			}
			return humanize.Comma(n), nil
		},
		OnWrite: func(v any) (any, error) {
			s, err := toString(v)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
			if err != nil {
				return nil, err
			}
			return n, nil
		},
	}
}

// Bytes shows a byte count in SI units ("83 MB") and parses any unit
// humanize understands. The round trip is exact only for counts humanize
// renders without rounding.
func Bytes() binding.Converters {
	return binding.Converters{
		OnRead: func(v any) (any, error) {
			n, err := toInt64(v)
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, fmt.Errorf("convert: negative byte count %d", n)
			}
			return humanize.Bytes(uint64(n)), nil
		},
		OnWrite: func(v any) (any, error) {
			s, err := toString(v)
			if err != nil {
				return nil, err
			}
			n, err := humanize.ParseBytes(s)
			if err != nil {
				return nil, err
			}
			return int64(n), nil
		},
	}
}

// Bool shows a bool as "true"/"false" and accepts anything strconv.ParseBool does.
func Bool() binding.Converters {
	return binding.Converters{
		OnRead: func(v any) (any, error) {
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: %T is not bool", ErrUnsupportedType, v)
			}
			return strconv.FormatBool(b), nil
		},
		OnWrite: func(v any) (any, error) {
			s, err := toString(v)
			if err != nil {
				return nil, err
			}
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return nil, err
			}
			return b, nil
		},
	}
}

// Trim strips surrounding whitespace on the way into the model.
func Trim() binding.Converters {
	return binding.Converters{
		OnWrite: func(v any) (any, error) {
			s, err := toString(v)
			if err != nil {
				return nil, err
			}
			return strings.TrimSpace(s), nil
		},
	}
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("%w: %T is not text", ErrUnsupportedType, v)
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", ErrUnsupportedType, v)
	}
}
