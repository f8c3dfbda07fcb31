package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zaqqye/exam_backend/internal/patch"
)

// ErrorDetail is one entry of a 422 body:
// {"detail":[{"loc":["body","email"],"msg":"...","type":"..."}]}.
type ErrorDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func BodyError(field, msg, typ string) ErrorDetail {
	loc := []string{"body"}
	if field != "" {
		loc = append(loc, field)
	}
	return ErrorDetail{Loc: loc, Msg: msg, Type: typ}
}

// Details explains why a request body was rejected, one entry per field
// when the cause allows it.
func Details(err error) []ErrorDetail {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		timeErr   *time.ParseError
		fieldErr  *patch.FieldError
	)
	switch {
	case errors.Is(err, io.EOF):
		return []ErrorDetail{BodyError("", "Field required", "missing")}
	case errors.As(err, &verrs):
		out := make([]ErrorDetail, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fromFieldError(fe))
		}
		return out
	case errors.As(err, &fieldErr):
		return []ErrorDetail{BodyError(fieldErr.Field, "Input should not be null", "null_not_allowed")}
	case errors.As(err, &typeErr):
		return []ErrorDetail{BodyError(typeErr.Field, fmt.Sprintf("Input should be a valid %s", typeErr.Type), "type_error")}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []ErrorDetail{BodyError("", "JSON decode error", "json_invalid")}
	case errors.As(err, &timeErr):
		return []ErrorDetail{BodyError("", "Input should be a valid datetime", "datetime_parsing")}
	}
	return []ErrorDetail{BodyError("", err.Error(), "value_error")}
}

func fromFieldError(fe validator.FieldError) ErrorDetail {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return BodyError(field, "Field required", "missing")
	case "min":
		return BodyError(field, fmt.Sprintf("String should have at least %s characters", fe.Param()), "string_too_short")
	case "max":
		return BodyError(field, fmt.Sprintf("String should have at most %s characters", fe.Param()), "string_too_long")
	case "uuid":
		return BodyError(field, "Input should be a valid UUID", "uuid_parsing")
	case "enum":
		return BodyError(field, fmt.Sprintf("Input should be one of the allowed values, got %q", fmt.Sprint(fe.Value())), "enum")
	case "ip|cidr":
		return BodyError(field, "Input is not a valid IPv4 or IPv6 address or network", "ip_any_network")
	}
	return BodyError(field, strings.TrimSpace(fmt.Sprintf("Failed on the '%s' rule", fe.Tag())), "value_error")
}
