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

package httperr

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type payload struct {
	ErrorCode string `json:"error_code"`
	Detail    string `json:"detail"`
	RequestID string `json:"request_id"`
}

// Abort renders err as a JSON error response and aborts the request.
// Unrecognized errors render as 500 without leaking their text.
func Abort(c *gin.Context, err error) {
	e := FromError(err)
	if e == nil {
		e = Internal(err)
	}
	c.AbortWithStatusJSON(e.StatusCode, payload{
		ErrorCode: e.ErrorCode,
		Detail:    e.Detail,
		RequestID: requestID(c),
	})
}

// Recovery is a middleware that renders errors collected on the Gin
// context during handler execution. The first collected error wins.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Abort(c, c.Errors[0].Err)
	}
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader(requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
