// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller's identity. The API has no authentication;
// the patient is named by a numeric user id carried in the JSON body, the
// user_id query parameter or the X-User-ID header.
package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderUserID carries the patient id for clients that prefer a header.
const HeaderUserID = "X-User-ID"

// ctxKeyUserID is set by upstream code that already knows the user.
const ctxKeyUserID = "userID"

// maxPeekBytes bounds how much of a body PeekJSON will buffer.
const maxPeekBytes = 64 << 10

// UserID returns the caller's user id as a decimal string, or "" when none
// is present. Sources in order: Gin context, X-User-ID, ?user_id=.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		switch x := v.(type) {
		case string:
			if x != "" {
				return x
			}
		case uint:
			return strconv.FormatUint(uint64(x), 10)
		}
	}
	if c.Request == nil {
		return ""
	}
	if h := strings.TrimSpace(c.GetHeader(HeaderUserID)); h != "" {
		return h
	}
	return strings.TrimSpace(c.Query("user_id"))
}

// ErrBodyTooLarge is returned by PeekJSON when the body exceeds its buffer.
var ErrBodyTooLarge = errors.New("request body too large to inspect")

// PeekJSON decodes the request body into v and puts the bytes back so the
// handler can bind it again. Bodies over 64 KiB are not inspected.
func PeekJSON(c *gin.Context, v any) error {
	if c.Request == nil || c.Request.Body == nil {
		return io.EOF
	}
	orig := c.Request.Body
	raw, err := io.ReadAll(io.LimitReader(orig, maxPeekBytes+1))
	c.Request.Body = readCloser{io.MultiReader(bytes.NewReader(raw), orig), orig}
	if err != nil {
		return err
	}
	if len(raw) > maxPeekBytes {
		return ErrBodyTooLarge
	}
	return json.Unmarshal(raw, v)
}

type readCloser struct {
	io.Reader
	io.Closer
}
