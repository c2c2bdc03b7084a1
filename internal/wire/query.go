package wire

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Query methods understood by ListDocuments.
const (
	QueryEqual     = "equal"
	QuerySearch    = "search"
	QueryOrderDesc = "orderDesc"
	QueryOrderAsc  = "orderAsc"
	QueryLimit     = "limit"
)

// Query is one filter, ordering or limit clause of a ListDocuments call.
type Query struct {
	Method    string
	Attribute string
	Values    []any
}

// Equal matches documents whose attribute equals any of values.
func Equal(attribute string, values ...any) Query {
	return Query{Method: QueryEqual, Attribute: attribute, Values: values}
}

// Search runs a full-text match of text against attribute.
func Search(attribute, text string) Query {
	return Query{Method: QuerySearch, Attribute: attribute, Values: []any{text}}
}

// OrderDesc sorts by attribute, newest/largest first.
func OrderDesc(attribute string) Query {
	return Query{Method: QueryOrderDesc, Attribute: attribute}
}

// OrderAsc sorts by attribute, oldest/smallest first.
func OrderAsc(attribute string) Query {
	return Query{Method: QueryOrderAsc, Attribute: attribute}
}

// Limit caps the number of returned documents.
func Limit(n int) Query {
	return Query{Method: QueryLimit, Values: []any{n}}
}

func (q Query) String() string {
	return fmt.Sprintf("%s(%s, %v)", q.Method, q.Attribute, q.Values)
}

// EncodeQueries converts queries into a list value for the queries field.
func EncodeQueries(queries []Query) (*structpb.ListValue, error) {
	items := make([]any, 0, len(queries))
	for _, q := range queries {
		values := make([]any, 0, len(q.Values))
		for _, v := range q.Values {
			values = append(values, normalize(v))
		}
		items = append(items, map[string]any{
			"method":    q.Method,
			"attribute": q.Attribute,
			"values":    values,
		})
	}
	lv, err := structpb.NewList(items)
	if err != nil {
		return nil, fmt.Errorf("encode queries: %w", err)
	}
	return lv, nil
}

// DecodeQueries is the inverse of EncodeQueries. Numbers come back as
// float64 and strings as string.
func DecodeQueries(s *structpb.Struct) []Query {
	items := List(s, FieldQueries)
	out := make([]Query, 0, len(items))
	for _, item := range items {
		q := Query{
			Method:    String(item, "method"),
			Attribute: String(item, "attribute"),
		}
		if v, ok := item.GetFields()["values"]; ok {
			q.Values = v.GetListValue().AsSlice()
		}
		out = append(out, q)
	}
	return out
}

// normalize widens values structpb cannot encode directly.
func normalize(v any) any {
	switch x := v.(type) {
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}
