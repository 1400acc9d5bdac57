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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestNormalization(t *testing.T) {
	p := NewDefaultPageRequest(0, -5)
	assert.Equal(t, 1, p.GetPage())
	assert.Equal(t, DefaultPageSize, p.GetPageSize())
	assert.Equal(t, 0, p.GetOffset())

	p = NewDefaultPageRequest(3, 20)
	assert.Equal(t, 3, p.GetPage())
	assert.Equal(t, 20, p.GetPageSize())
	assert.Equal(t, 40, p.GetOffset())
}

func TestSortedPageRequest(t *testing.T) {
	p := NewSortedPageRequest(1, 10, "name", DirectionDesc)
	assert.Equal(t, []string{"name DESC"}, p.GetOrders())

	// An invalid direction falls back to ascending.
	p = NewSortedPageRequest(1, 10, "name", Direction(IllegalValue))
	assert.Equal(t, []string{"name ASC"}, p.GetOrders())
}

func TestPaginationPages(t *testing.T) {
	tests := []struct {
		total    int
		pageSize int
		want     int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		p := &Pagination[int]{Total: tt.total, PageSize: tt.pageSize}
		assert.Equal(t, tt.want, p.Pages(), "total=%d size=%d", tt.total, tt.pageSize)
	}
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, DirectionAsc, ParseDirection("asc"))
	assert.Equal(t, DirectionAsc, ParseDirection(" ASC "))
	assert.Equal(t, DirectionAsc, ParseDirection(""))
	assert.Equal(t, DirectionDesc, ParseDirection("desc"))
	assert.Equal(t, DirectionDesc, ParseDirection("DESC"))

	d := ParseDirection("sideways")
	assert.False(t, d.IsValid())
	assert.Equal(t, "UNKNOWN", d.String())
	assert.Equal(t, IllegalName, d.Name())
}

func TestSoftDeleteModelLive(t *testing.T) {
	m := &SoftDeleteModel{IsActive: true}
	assert.True(t, m.Live())

	m.IsDeleted = true
	assert.False(t, m.Live())

	m = &SoftDeleteModel{}
	assert.False(t, m.Live())
}
