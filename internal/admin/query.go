package admin

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const defaultListLimit = 100

// ErrUnknownFilter is returned when a request filters on a field the
// declaration does not offer.
var ErrUnknownFilter = fmt.Errorf("unknown filter field")

// ListQuery is the resolved shape of one list request: the declaration's
// ordering and search fields combined with the caller's parameters.
type ListQuery struct {
	Search       string
	SearchFields []string
	Filters      map[string]string
	OrderBy      string
	Limit        int
	Offset       int
}

// BuildListQuery resolves request query parameters against a declaration.
// The parameters q, limit and offset are reserved; every other parameter
// must name a declared filter field.
func BuildListQuery(cfg ModelAdmin, params map[string]string) (ListQuery, error) {
	lq := ListQuery{
		SearchFields: cfg.SearchFields,
		Filters:      make(map[string]string),
		OrderBy:      orderClause(cfg.Ordering),
		Limit:        defaultListLimit,
	}

	for key, value := range params {
		switch key {
		case "q":
			lq.Search = value
		case "limit":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return ListQuery{}, fmt.Errorf("invalid limit %q", value)
			}
			lq.Limit = n
		case "offset":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return ListQuery{}, fmt.Errorf("invalid offset %q", value)
			}
			lq.Offset = n
		default:
			if !contains(cfg.ListFilter, key) {
				return ListQuery{}, fmt.Errorf("%w: %s", ErrUnknownFilter, key)
			}
			lq.Filters[key] = value
		}
	}

	return lq, nil
}

// Apply narrows a gorm query to the resolved list request. The groups
// filter goes through the junction table; every other filter is a plain
// column match.
func (q ListQuery) Apply(db *gorm.DB) *gorm.DB {
	for field, value := range q.Filters {
		if field == "groups" {
			db = db.Joins("JOIN account.account_group ON account.account_group.account_id = account.account.id").
				Where("account.account_group.group_id = ?", value)
			continue
		}
		db = db.Where(fmt.Sprintf("%s = ?", field), value)
	}

	if q.Search != "" && len(q.SearchFields) > 0 {
		var clauses []string
		var args []any
		for _, field := range q.SearchFields {
			clauses = append(clauses, fmt.Sprintf("%s ILIKE ?", field))
			args = append(args, "%"+q.Search+"%")
		}
		db = db.Where(strings.Join(clauses, " OR "), args...)
	}

	if q.OrderBy != "" {
		db = db.Order(q.OrderBy)
	}

	return db.Limit(q.Limit).Offset(q.Offset)
}

// orderClause renders a declared ordering into SQL; a leading dash marks
// a descending field.
func orderClause(ordering []string) string {
	var parts []string
	for _, field := range ordering {
		if rest, ok := strings.CutPrefix(field, "-"); ok {
			parts = append(parts, rest+" DESC")
			continue
		}
		parts = append(parts, field+" ASC")
	}
	return strings.Join(parts, ", ")
}

func contains(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
