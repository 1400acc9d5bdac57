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

package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// SQLError classifies driver errors across the supported dialects.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoTableErr
	NoColumnErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
)

// MySQL errno values, keyed to the classification.
var mysqlErrnoClass = map[uint16]SQLError{
	1054: NoColumnErr,
	1060: ExistTableErr,
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
	1452: ForeignKeyViolationErr,
	3819: CheckConstraintViolationErr,
	1265: DataTruncatedErr,
	1146: NoTableErr,
}

// Substring matchers covering PostgreSQL SQLSTATE text and SQLite
// message styles.
var sqlErrorMatchers = []struct {
	class SQLError
	subs  []string
}{
	{NoRowsErr, []string{"no rows in result set"}},
	{DuplicateKeyErr, []string{"sqlstate 23505", "duplicate key value", "unique constraint failed"}},
	{NotNullViolationErr, []string{"sqlstate 23502", "not-null constraint", "not null constraint failed"}},
	{ForeignKeyViolationErr, []string{"sqlstate 23503", "foreign key violation", "foreign key constraint failed"}},
	{CheckConstraintViolationErr, []string{"sqlstate 23514", "check constraint"}},
	{DataTruncatedErr, []string{"sqlstate 22001", "string data right truncation", "data truncated"}},
	{NoColumnErr, []string{"sqlstate 42703", "undefined column", "no such column"}},
	{NoTableErr, []string{"sqlstate 42p01", "undefined table", "no such table"}},
	{ExistTableErr, []string{"already exists"}},
}

// IsSqlError reports whether err is recognizable as a database error and
// classifies it. MySQL errors classify by errno; everything else falls
// back to message matching.
func IsSqlError(err error) (bool, SQLError) {
	if err == nil {
		return false, UnknownErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if class, ok := mysqlErrnoClass[mysqlErr.Number]; ok {
			return true, class
		}
		return true, UnknownErr
	}

	s := strings.ToLower(err.Error())
	for _, m := range sqlErrorMatchers {
		for _, sub := range m.subs {
			if strings.Contains(s, sub) {
				return true, m.class
			}
		}
	}
	return false, UnknownErr
}

// IsDuplicateKey reports whether err is a uniqueness violation.
func IsDuplicateKey(err error) bool {
	is, class := IsSqlError(err)
	return is && class == DuplicateKeyErr
}

// IsIntegrityViolation reports whether err violates a storage
// constraint: uniqueness, NOT NULL, foreign key, check, or truncation.
func IsIntegrityViolation(err error) bool {
	is, class := IsSqlError(err)
	if !is {
		return false
	}
	switch class {
	case DuplicateKeyErr, NotNullViolationErr, ForeignKeyViolationErr,
		CheckConstraintViolationErr, DataTruncatedErr:
		return true
	}
	return false
}
