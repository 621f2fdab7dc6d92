// SPDX-License-Identifier: MIT

package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/katalvlaran/wayfind/navigator"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	maxLocationID   = 128
)

// requestID keeps a caller-supplied UUID request ID or issues a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

var registerOnce sync.Once

func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := v.RegisterValidation("locid", validLocationID); err != nil {
				panic(fmt.Sprintf("server: register locid validator: %v", err))
			}
		}
	})
}

// validLocationID accepts printable IDs without surrounding or inner
// whitespace, up to maxLocationID bytes.
func validLocationID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > maxLocationID {
		return false
	}

	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || !unicode.IsPrint(r)
	}) < 0
}

// statusFor maps an engine error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case "not_found", "no_path", "no_exit", "no_path_from_any_entrance", "qr_not_found":
		return http.StatusNotFound
	case "start_required", "destination_required", "no_entrance_configured", "invalid_count":
		return http.StatusBadRequest
	case "store_unavailable", "canceled":
		return http.StatusServiceUnavailable
	case "persist_failed":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error body for err and logs server-side failures.
func (s *Server) fail(c *gin.Context, err error) {
	code := navigator.Code(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Printf("[http] %s %s (%s): %v", c.Request.Method, c.FullPath(), c.GetString(requestIDKey), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
}
