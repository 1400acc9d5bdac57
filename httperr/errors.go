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

// Package httperr defines HTTP-class errors raised at the data-access
// boundary and a Gin responder that renders them.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Application error codes carried alongside HTTP status codes.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeAlreadyExists   = "OBJECT_ALREADY_EXISTS"
	CodeIntegrityError  = "INTEGRITY_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// Error is an error carrying an HTTP status, an application error code,
// and a human-readable detail. The wrapped cause, if any, stays
// available through errors.Unwrap.
type Error struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"error_code"`
	Detail     string `json:"detail"`
	Err        error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrorCode, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error with an explicit status and code.
func New(statusCode int, errorCode, detail string, cause error) *Error {
	return &Error{StatusCode: statusCode, ErrorCode: errorCode, Detail: detail, Err: cause}
}

// NotFound reports a missing single row, e.g. "system config not found".
func NotFound(name string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", name), nil)
}

// AlreadyExists reports a uniqueness conflict detected up front.
func AlreadyExists(name string) *Error {
	return New(http.StatusBadRequest, CodeAlreadyExists, fmt.Sprintf("%s already exists", name), nil)
}

// BadRequest reports a client-caused failure, carrying the underlying
// database error text as detail when one caused it.
func BadRequest(errorCode, detail string, cause error) *Error {
	return New(http.StatusBadRequest, errorCode, detail, cause)
}

// Internal wraps any unexpected error as a 500-class Error.
func Internal(cause error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, "internal error", cause)
}

// FromError extracts an *Error from err's chain, or nil.
func FromError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// StatusOf returns the HTTP status carried by err, defaulting to 500.
func StatusOf(err error) int {
	if e := FromError(err); e != nil {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err is a 404-class Error.
func IsNotFound(err error) bool {
	e := FromError(err)
	return e != nil && e.StatusCode == http.StatusNotFound
}
