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

// Package web binds HTTP request parameters to store inputs: query
// strings become filter sets and page requests.
package web

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mossrock/crudbase/crud"
	"github.com/mossrock/crudbase/types"
)

// Reserved query parameters consumed by BindPageRequest.
const (
	ParamPage      = "page"
	ParamPageSize  = "page_size"
	ParamOrderBy   = "order_by"
	ParamDirection = "direction"
)

// MaxPageSize caps client-supplied page sizes.
const MaxPageSize = 200

// BindFilters reads query parameters into a filter set. Only parameters
// whose column part (operator suffix stripped) appears in fields are
// kept; pagination parameters and everything else are dropped. Values
// for "in"/"not_in" operators are comma-split into slices. Repeating a
// parameter also produces a slice.
func BindFilters(c *gin.Context, fields ...string) crud.Filters {
	allowed := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		allowed[f] = struct{}{}
	}

	filters := crud.Filters{}
	for key, values := range c.Request.URL.Query() {
		if isReserved(key) || len(values) == 0 {
			continue
		}
		column, op := crud.SplitOperator(key)
		if _, ok := allowed[column]; !ok {
			continue
		}
		switch {
		case op == crud.OpIn || op == crud.OpNotIn:
			filters[key] = splitList(values)
		case op == crud.OpIsNull:
			b, err := strconv.ParseBool(values[0])
			if err != nil {
				continue
			}
			filters[key] = b
		case len(values) > 1:
			filters[key] = values
		default:
			filters[key] = values[0]
		}
	}
	return filters
}

// BindPageRequest reads page, page_size, order_by, and direction query
// parameters. order_by is honored only when listed in sortable.
func BindPageRequest(c *gin.Context, sortable ...string) *types.PageRequest {
	page := intQuery(c, ParamPage, 1)
	pageSize := intQuery(c, ParamPageSize, types.DefaultPageSize)
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	orderBy := c.Query(ParamOrderBy)
	if orderBy == "" {
		return types.NewDefaultPageRequest(page, pageSize)
	}
	for _, col := range sortable {
		if col == orderBy {
			direction := types.ParseDirection(c.Query(ParamDirection))
			return types.NewSortedPageRequest(page, pageSize, orderBy, direction)
		}
	}
	return types.NewDefaultPageRequest(page, pageSize)
}

func isReserved(key string) bool {
	switch key {
	case ParamPage, ParamPageSize, ParamOrderBy, ParamDirection:
		return true
	}
	return false
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
