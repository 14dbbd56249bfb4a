package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/andresuchdata/invopt/internal/domain"
)

// buildComponentFilterClause constructs SQL filter clauses for component
// queries. Status never appears here: the coverage band is derived after
// metrics are computed.
func buildComponentFilterClause(filter domain.ComponentFilter, alias string, startIndex int) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	idx := startIndex

	if len(filter.Categories) > 0 {
		clauses = append(clauses, fmt.Sprintf("%scategory = ANY($%d::text[])", alias, idx))
		args = append(args, pq.Array(filter.Categories))
		idx++
	}

	if len(filter.SupplierIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("%ssupplier_id = ANY($%d::text[])", alias, idx))
		args = append(args, pq.Array(filter.SupplierIDs))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " AND " + strings.Join(clauses, " AND "), args
}
