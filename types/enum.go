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

import "strings"

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Name() string
}

// Direction is a sort direction for ordered reads.
type Direction int

const (
	DirectionAsc Direction = iota
	DirectionDesc
)

// ParseDirection maps "asc"/"desc" (any case) to a Direction. Anything
// else parses as an invalid direction.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "":
		return DirectionAsc
	case "desc":
		return DirectionDesc
	default:
		return Direction(IllegalValue)
	}
}

func (d Direction) IsValid() bool {
	return d == DirectionAsc || d == DirectionDesc
}

func (d Direction) Number() int { return int(d) }

func (d Direction) String() string {
	switch d {
	case DirectionAsc:
		return "ASC"
	case DirectionDesc:
		return "DESC"
	default:
		return strings.ToUpper(IllegalName)
	}
}

func (d Direction) Name() string {
	switch d {
	case DirectionAsc:
		return "asc"
	case DirectionDesc:
		return "desc"
	default:
		return IllegalName
	}
}
