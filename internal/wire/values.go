package wire

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// TimeLayout is the timestamp encoding used inside structs.
const TimeLayout = time.RFC3339Nano

// NewStruct wraps structpb.NewStruct with a wrapped error.
func NewStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode struct: %w", err)
	}
	return s, nil
}

// MustStruct is NewStruct for literals known to be encodable.
func MustStruct(fields map[string]any) *structpb.Struct {
	s, err := NewStruct(fields)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the string field key, or "" when absent or not a string.
func String(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// Int returns the numeric field key truncated to int64, or 0.
func Int(s *structpb.Struct, key string) int64 {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0
	}
	return int64(v.GetNumberValue())
}

// Time parses the field key as a TimeLayout timestamp. Absent or malformed
// values yield the zero time.
func Time(s *structpb.Struct, key string) time.Time {
	raw := String(s, key)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatTime renders t in TimeLayout (UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// List returns the struct elements of the list field key, skipping anything
// that is not a struct.
func List(s *structpb.Struct, key string) []*structpb.Struct {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil
	}
	values := v.GetListValue().GetValues()
	out := make([]*structpb.Struct, 0, len(values))
	for _, item := range values {
		if st := item.GetStructValue(); st != nil {
			out = append(out, st)
		}
	}
	return out
}
