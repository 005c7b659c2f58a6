// Package validate 注册业务自定义的参数校验标签
package validate

import (
	"errors"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"rescue-roster/pkg/jalali"
)

// 自定义校验标签
const (
	TagJalaliDate = "jalali_date" // "YYYY-MM-DD" 且月、日在伊朗历范围内
	TagNonNeg     = "nonneg"      // 整数 >= 0
)

// Register 在给定的校验器上注册自定义标签
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(TagJalaliDate, jalaliDate); err != nil {
		return err
	}
	return v.RegisterValidation(TagNonNeg, nonNegative)
}

// RegisterGin 在 gin 默认的 binding 校验器上注册自定义标签
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding 校验器不是 validator/v10")
	}
	return Register(v)
}

// IsJalaliDate 判断字符串是否为合法的伊朗历日期
func IsJalaliDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	d, err := jalali.ParseDate(s)
	if err != nil || d.Year < 1 {
		return false
	}
	n, err := jalali.DaysInMonth(d.Year, d.Month)
	if err != nil {
		return false
	}
	return d.Day >= 1 && d.Day <= n
}

func jalaliDate(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	return IsJalaliDate(fl.Field().String())
}

func nonNegative(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.Int() >= 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}
