package compiler

import (
	"fmt"
	"strings"

	"bizatlas/internal/domain"
)

// baseTable is the dataset every compiled query selects from.
const baseTable = "businesses"

// defaultLimit caps result sets when the document gives no limit.
const defaultLimit = 1000

// QueryBuilder translates the condition list and request shape into a
// parameterized query string plus a positional parameter list. Placeholders
// are numbered $1, $2, ... in emission order; multi-placeholder operators
// (between, in, near) consume sequential numbers.
//
// Field names are interpolated verbatim — only values are parameterized.
// Deployments that accept untrusted field names should configure the
// validator's field allow-list.
type QueryBuilder struct{}

// NewQueryBuilder returns a QueryBuilder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Build produces the query text and parameters for the document. It is
// deterministic for identical input and assumes the document has already
// passed validation.
func (b *QueryBuilder) Build(dsl domain.FilterDSL) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(baseTable)

	params := make([]any, 0, len(dsl.Where)*2)

	if len(dsl.Where) > 0 {
		sb.WriteString(" WHERE ")

		// Connector carry-forward: the default starts at AND; an explicit
		// logical tag is used for the connector immediately preceding its
		// condition and then becomes the default for all later conditions.
		// No grouping parentheses are ever inserted, so condition order is
		// semantically significant.
		next := 1
		defaultConn := domain.LogicalAnd
		for i, cond := range dsl.Where {
			frag, args := b.fragment(cond, &next)
			if i > 0 {
				conn := defaultConn
				if cond.Logical != "" {
					conn = cond.Logical
				}
				sb.WriteString(" " + conn + " ")
			}
			sb.WriteString(frag)
			params = append(params, args...)
			if cond.Logical != "" {
				defaultConn = cond.Logical
			}
		}
	}

	if len(dsl.Sorting) > 0 {
		terms := make([]string, len(dsl.Sorting))
		for i, s := range dsl.Sorting {
			terms[i] = s.Field + " " + strings.ToUpper(s.Direction)
		}
		sb.WriteString(" ORDER BY " + strings.Join(terms, ", "))
	}

	limit := dsl.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	fmt.Fprintf(&sb, " LIMIT %d", limit)

	return sb.String(), params
}

// fragment emits the SQL fragment and parameter values for one condition,
// advancing *next once per placeholder actually emitted. An unrecognized
// operator emits an empty fragment and advances nothing, which leaves a
// malformed clause behind — callers wanting a hard failure instead should
// enable strict operator validation.
func (b *QueryBuilder) fragment(cond domain.FilterCondition, next *int) (string, []any) {
	switch cond.Op {
	case "=", "!=", ">", "<", ">=", "<=":
		p := take(next, 1)
		return fmt.Sprintf("%s %s $%d", cond.Field, cond.Op, p), []any{cond.Value}

	case "in", "not_in":
		vals, ok := sequenceValue(cond.Value)
		if !ok {
			return "", nil
		}
		placeholders := make([]string, len(vals))
		for i := range vals {
			placeholders[i] = fmt.Sprintf("$%d", take(next, 1))
		}
		keyword := "IN"
		if cond.Op == "not_in" {
			keyword = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", cond.Field, keyword, strings.Join(placeholders, ", ")), vals

	case "between":
		pair, ok := sequenceValue(cond.Value)
		if !ok || len(pair) != 2 {
			return "", nil
		}
		lo := take(next, 1)
		hi := take(next, 1)
		return fmt.Sprintf("%s BETWEEN $%d AND $%d", cond.Field, lo, hi), []any{pair[0], pair[1]}

	case "contains":
		p := take(next, 1)
		return fmt.Sprintf("%s ILIKE $%d", cond.Field, p), []any{fmt.Sprintf("%%%v%%", cond.Value)}

	case "starts_with":
		p := take(next, 1)
		return fmt.Sprintf("%s ILIKE $%d", cond.Field, p), []any{fmt.Sprintf("%v%%", cond.Value)}

	case "ends_with":
		p := take(next, 1)
		return fmt.Sprintf("%s ILIKE $%d", cond.Field, p), []any{fmt.Sprintf("%%%v", cond.Value)}

	case "within":
		p := take(next, 1)
		return fmt.Sprintf("ST_Within(ST_Point(longitude, latitude), ST_GeomFromGeoJSON($%d))", p), []any{geoJSONValue(cond.Value)}

	case "near":
		g, ok := geoValue(cond.Value)
		if !ok {
			return "", nil
		}
		pLng := take(next, 1)
		pLat := take(next, 1)
		pRadius := take(next, 1)
		return fmt.Sprintf("ST_DWithin(ST_Point(longitude, latitude), ST_Point($%d, $%d), $%d)",
			pLng, pLat, pRadius), []any{g.Lng, g.Lat, g.Radius}

	default:
		return "", nil
	}
}

// take returns the current placeholder number and advances the counter by n.
func take(next *int, n int) int {
	p := *next
	*next += n
	return p
}
