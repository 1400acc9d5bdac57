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

package types

import "fmt"

// DefaultPageSize is used when a page request carries no usable size.
const DefaultPageSize = 10

// PageRequest describes pagination and ordering for multi-row reads.
type PageRequest struct {
	page     int
	pageSize int
	orders   []string // "id DESC", "name ASC"
}

// NewPageRequest constructs a PageRequest with explicit ordering entries.
func NewPageRequest(page, pageSize int, orders []string) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, orders: orders}
}

// NewDefaultPageRequest constructs a PageRequest with no ordering.
func NewDefaultPageRequest(page, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, nil)
}

// NewSortedPageRequest constructs a PageRequest ordered by a single column.
func NewSortedPageRequest(page, pageSize int, orderBy string, direction Direction) *PageRequest {
	if !direction.IsValid() {
		direction = DirectionAsc
	}
	return NewPageRequest(page, pageSize, []string{fmt.Sprintf("%s %s", orderBy, direction)})
}

// GetPage returns the 1-based page number, normalizing values below 1.
func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		p.page = 1
	}
	return p.page
}

// GetPageSize returns the page size, normalizing values below 1.
func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = DefaultPageSize
	}
	return p.pageSize
}

// GetOffset returns the row offset for the current page.
func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// GetOrders returns the ordering entries.
func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// Pagination holds one page of items with pagination metadata.
type Pagination[T any] struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	Items    []*T `json:"items"`
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page, pageSize int) *Pagination[T] {
	return &Pagination[T]{Page: page, PageSize: pageSize, Total: 0, Items: make([]*T, 0)}
}

// Pages returns the number of pages implied by Total and PageSize.
func (p *Pagination[T]) Pages() int {
	if p.PageSize < 1 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
