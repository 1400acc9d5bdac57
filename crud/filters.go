/*
 * Copyright 2026 mossrock.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package crud

import (
	"reflect"
	"sort"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

// Filters maps column names to match values. A key may carry a
// double-underscore operator suffix, e.g. "age__gte" or "name__ilike".
// Keys without a recognized suffix compare for equality; an equality
// match against a slice value compiles to IN. Keys that do not resolve
// to a mapped column of the model are skipped without error.
type Filters map[string]any

// Operator suffix tokens accepted in filter keys.
const (
	OpEq     = "eq"
	OpNeq    = "neq"
	OpGt     = "gt"
	OpGte    = "gte"
	OpLt     = "lt"
	OpLte    = "lte"
	OpIn     = "in"
	OpNotIn  = "not_in"
	OpIsNull = "isnull"
	OpLike   = "like"
	OpILike  = "ilike"
	OpNot    = "not"
)

var operatorTokens = map[string]struct{}{
	OpNeq:    {},
	OpGt:     {},
	OpGte:    {},
	OpLt:     {},
	OpLte:    {},
	OpIn:     {},
	OpNotIn:  {},
	OpIsNull: {},
	OpLike:   {},
	OpILike:  {},
	OpNot:    {},
}

// SplitOperator splits a filter key into its column name and operator
// token. A key whose last "__" segment is not a known operator is treated
// as a plain column name with an equality operator.
func SplitOperator(key string) (column string, op string) {
	if idx := strings.LastIndex(key, "__"); idx > 0 {
		token := key[idx+2:]
		if _, ok := operatorTokens[token]; ok {
			return key[:idx], token
		}
	}
	return key, OpEq
}

type condition struct {
	expr string
	args []any
}

// compile resolves the filter set against the model's table schema and
// produces WHERE conditions in deterministic (sorted key) order.
func (f Filters) compile(table *schema.Table, name dialect.Name) []condition {
	if len(f) == 0 || table == nil {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]condition, 0, len(keys))
	for _, key := range keys {
		column, op := SplitOperator(key)
		if _, ok := table.FieldMap[column]; !ok {
			// Columns unknown to the model are ignored rather than rejected.
			continue
		}
		if c, ok := buildCondition(column, op, f[key], name); ok {
			conds = append(conds, c)
		}
	}
	return conds
}

func buildCondition(column, op string, value any, name dialect.Name) (condition, bool) {
	ident := bun.Ident(column)
	switch op {
	case OpEq:
		if value == nil {
			return condition{"? IS NULL", []any{ident}}, true
		}
		if isSlice(value) {
			return condition{"? IN (?)", []any{ident, bun.In(value)}}, true
		}
		return condition{"? = ?", []any{ident, value}}, true
	case OpNeq:
		return condition{"? != ?", []any{ident, value}}, true
	case OpGt:
		return condition{"? > ?", []any{ident, value}}, true
	case OpGte:
		return condition{"? >= ?", []any{ident, value}}, true
	case OpLt:
		return condition{"? < ?", []any{ident, value}}, true
	case OpLte:
		return condition{"? <= ?", []any{ident, value}}, true
	case OpIn:
		return condition{"? IN (?)", []any{ident, bun.In(asSlice(value))}}, true
	case OpNotIn:
		return condition{"? NOT IN (?)", []any{ident, bun.In(asSlice(value))}}, true
	case OpIsNull:
		isNull, ok := value.(bool)
		if !ok {
			return condition{}, false
		}
		if isNull {
			return condition{"? IS NULL", []any{ident}}, true
		}
		return condition{"? IS NOT NULL", []any{ident}}, true
	case OpLike:
		return condition{"? LIKE ?", []any{ident, value}}, true
	case OpILike:
		if name == dialect.PG {
			return condition{"? ILIKE ?", []any{ident, value}}, true
		}
		// Case-insensitive fallback for dialects without ILIKE.
		return condition{"lower(?) LIKE lower(?)", []any{ident, value}}, true
	case OpNot:
		return condition{"? IS NOT ?", []any{ident, value}}, true
	}
	return condition{}, false
}

// Apply returns a query builder function that adds every compiled
// condition as an AND'ed WHERE clause. It plugs into select, update,
// and delete queries alike via ApplyQueryBuilder.
func (f Filters) Apply(table *schema.Table, name dialect.Name) func(bun.QueryBuilder) bun.QueryBuilder {
	conds := f.compile(table, name)
	return func(qb bun.QueryBuilder) bun.QueryBuilder {
		for _, c := range conds {
			qb = qb.Where(c.expr, c.args...)
		}
		return qb
	}
}

func isSlice(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.([]byte); ok {
		return false
	}
	k := reflect.TypeOf(value).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func asSlice(value any) any {
	if isSlice(value) {
		return value
	}
	return []any{value}
}
