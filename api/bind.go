package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// bindJSON 解析并校验请求体，返回可直接发给客户端的错误信息
func bindJSON(c *gin.Context, dst any) (string, bool) {
	body, err := c.GetRawData()
	if err != nil {
		return "Invalid request body", false
	}
	if nn, ok := dst.(nonNullable); ok {
		if field, found := explicitNull(body, nn.nonNullFields()); found {
			return fmt.Sprintf("%q must not be null", field), false
		}
	}
	if err := binding.JSON.BindBody(body, dst); err != nil {
		return bindMessage(err), false
	}
	return "", true
}

// nonNullable 请求体中不允许显式 null 的字段
type nonNullable interface {
	nonNullFields() []string
}

// explicitNull 返回第一个值为 null 的字段，body 不是 JSON 对象时交给解码报错
func explicitNull(body []byte, fields []string) (string, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", false
	}
	for _, f := range fields {
		if v, ok := raw[f]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return f, true
		}
	}
	return "", false
}

func bindMessage(err error) string {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
		dateErr *DateError
	)
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		return fieldMessage(verrs[0])
	case errors.As(err, &dateErr):
		return dateErr.Error()
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return fmt.Sprintf("%q must be a %s", field, jsonKind(typeErr.Type.Kind().String()))
	case errors.As(err, &synErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "Request body is not valid JSON"
	case errors.Is(err, io.EOF):
		return "Request body is required"
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return fmt.Sprintf("%s is not allowed", field)
	}
	return "Invalid request body"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "money":
		return fmt.Sprintf("%q must be a non-negative number with at most 2 decimal places", field)
	}
	return fmt.Sprintf("%q is invalid", field)
}

func jsonKind(goKind string) string {
	switch {
	case strings.HasPrefix(goKind, "float"), strings.HasPrefix(goKind, "int"), strings.HasPrefix(goKind, "uint"):
		return "number"
	case goKind == "bool":
		return "boolean"
	case goKind == "string":
		return "string"
	}
	return "valid value"
}
