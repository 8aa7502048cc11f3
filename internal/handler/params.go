package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
	"github.com/noah-isme/exam-prep-api/pkg/response"
)

// pathID parses the :id path parameter. An unparsable id is treated like an
// unknown one, so the caller's not-found message is rendered as 404.
func pathID(c *gin.Context, notFound string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, notFound))
		return 0, false
	}
	return id, true
}

// lenientInt parses the leading integer of a query value ("2abc" reads as 2),
// returning 0 when it is absent or has no leading digits.
func lenientInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(leadingInteger(c.Query(key)))
	if err != nil {
		return 0
	}
	return v
}

// lenientID is lenientInt for int64 ids.
func lenientID(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(leadingInteger(c.Query(key)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// leadingInteger returns the optionally signed run of digits at the start of raw.
func leadingInteger(raw string) string {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return ""
	}
	return raw[:end]
}
