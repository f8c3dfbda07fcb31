package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zaqqye/exam_backend/internal/repository"
	"github.com/zaqqye/exam_backend/internal/schemas"
)

// parseID reads a UUID path parameter and returns it in canonical form,
// answering 422 itself when the value is malformed.
func parseID(c *gin.Context, name string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []schemas.ErrorDetail{{
			Loc:  []string{"path", name},
			Msg:  "Input should be a valid UUID",
			Type: "uuid_parsing",
		}}})
		return "", false
	}
	return id.String(), true
}

// parsePage reads skip and limit, defaulting to 0 and 100.
func parsePage(c *gin.Context) (skip, limit int, ok bool) {
	var details []schemas.ErrorDetail
	skip = queryInt(c, "skip", repository.DefaultOffset, &details)
	limit = queryInt(c, "limit", repository.DefaultLimit, &details)
	if len(details) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": details})
		return 0, 0, false
	}
	return skip, limit, true
}

func queryInt(c *gin.Context, name string, def int, details *[]schemas.ErrorDetail) int {
	raw, present := c.GetQuery(name)
	if !present {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		*details = append(*details, schemas.ErrorDetail{
			Loc:  []string{"query", name},
			Msg:  "Input should be a valid integer",
			Type: "int_parsing",
		})
		return def
	}
	if n < 0 {
		*details = append(*details, schemas.ErrorDetail{
			Loc:  []string{"query", name},
			Msg:  "Input should be greater than or equal to 0",
			Type: "greater_than_equal",
		})
		return def
	}
	return n
}
