package api

import (
	"reflect"
	"strings"
	"sync"

	"thrive/service"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 注册校验规则
// 错误信息使用 JSON 字段名，注册 money 标签，拒绝未知字段
func RegisterValidators() {
	registerOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("money", validateMoney)
	})
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// validateMoney 非负且最多两位小数
func validateMoney(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		return service.IsMoney(fl.Field().Float())
	case reflect.Int, reflect.Int64, reflect.Int32:
		return fl.Field().Int() >= 0
	}
	return false
}
