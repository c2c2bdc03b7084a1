package documents

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/wire"
)

// MaxLimit caps limit() and is applied when no limit is given.
const MaxLimit = 100

// textSearchConfig is the Postgres text search configuration used by search().
const textSearchConfig = "simple"

// listQuery accumulates the SQL of a List call. Attribute names always
// travel as bind parameters, never spliced into the statement.
type listQuery struct {
	where []string
	order []string
	rank  string
	args  []any
	limit int
}

func (q *listQuery) bind(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// column resolves a query attribute to a SQL expression.
func (q *listQuery) column(attr string) (string, error) {
	switch attr {
	case "":
		return "", fmt.Errorf("%w: query attribute is required", common.ErrInvalidArgument)
	case wire.AttrID:
		return "id", nil
	case wire.AttrCreatedAt:
		return "created_at", nil
	case wire.AttrCollectionID:
		return "collection_id", nil
	default:
		return "data->>" + q.bind(attr), nil
	}
}

func (q *listQuery) apply(query wire.Query) error {
	switch query.Method {
	case wire.QueryEqual:
		col, err := q.column(query.Attribute)
		if err != nil {
			return err
		}
		if len(query.Values) == 0 {
			return fmt.Errorf("%w: equal(%s) needs a value", common.ErrInvalidArgument, query.Attribute)
		}
		params := make([]string, 0, len(query.Values))
		for _, v := range query.Values {
			params = append(params, q.bind(scalar(v)))
		}
		q.where = append(q.where, fmt.Sprintf("%s IN (%s)", col, strings.Join(params, ", ")))

	case wire.QuerySearch:
		col, err := q.column(query.Attribute)
		if err != nil {
			return err
		}
		if len(query.Values) != 1 {
			return fmt.Errorf("%w: search(%s) needs one value", common.ErrInvalidArgument, query.Attribute)
		}
		doc := fmt.Sprintf("to_tsvector('%s', coalesce(%s, ''))", textSearchConfig, col)
		tsq := fmt.Sprintf("plainto_tsquery('%s', %s)", textSearchConfig, q.bind(scalar(query.Values[0])))
		q.where = append(q.where, doc+" @@ "+tsq)
		if q.rank == "" {
			q.rank = fmt.Sprintf("ts_rank(%s, %s) DESC", doc, tsq)
		}

	case wire.QueryOrderDesc, wire.QueryOrderAsc:
		col, err := q.column(query.Attribute)
		if err != nil {
			return err
		}
		dir := "ASC"
		if query.Method == wire.QueryOrderDesc {
			dir = "DESC"
		}
		q.order = append(q.order, col+" "+dir)

	case wire.QueryLimit:
		n, err := limitOf(query.Values)
		if err != nil {
			return err
		}
		q.limit = n

	default:
		return fmt.Errorf("%w: unknown query method %q", common.ErrInvalidArgument, query.Method)
	}
	return nil
}

// buildListQuery renders the SELECT for List.
func buildListQuery(databaseID, collectionID string, queries []wire.Query) (string, []any, error) {
	q := &listQuery{limit: MaxLimit}
	q.where = append(q.where,
		"database_id = "+q.bind(databaseID),
		"collection_id = "+q.bind(collectionID))

	for _, query := range queries {
		if err := q.apply(query); err != nil {
			return "", nil, err
		}
	}

	order := q.order
	if len(order) == 0 && q.rank != "" {
		order = []string{q.rank}
	}
	// stable pagination for equal timestamps
	order = append(order, "id ASC")

	sql := "SELECT id, collection_id, data, created_at FROM documents WHERE " +
		strings.Join(q.where, " AND ") +
		" ORDER BY " + strings.Join(order, ", ") +
		" LIMIT " + q.bind(q.limit)
	return sql, q.args, nil
}

func limitOf(values []any) (int, error) {
	if len(values) != 1 {
		return 0, fmt.Errorf("%w: limit needs one value", common.ErrInvalidArgument)
	}
	var n float64
	switch v := values[0].(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	default:
		return 0, fmt.Errorf("%w: limit must be a number, got %T", common.ErrInvalidArgument, values[0])
	}
	if n < 1 || n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: limit must be a positive integer, got %v", common.ErrInvalidArgument, n)
	}
	return int(min(n, MaxLimit)), nil
}

// scalar renders a query value the way data->> renders JSON scalars.
func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
