package api

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	// MaxReportedPrice 用户上报价格上限
	MaxReportedPrice = 50000.0
	tagTicketPrice   = "ticket_price"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册自定义规则（只注册一次）
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin校验引擎不是validator.Validate")
			return
		}
		err = v.RegisterValidation(tagTicketPrice, validTicketPrice)
	})
	return err
}

// validTicketPrice 票价须大于 0 且不超过上限
func validTicketPrice(fl validator.FieldLevel) bool {
	p := fl.Field().Float()
	return p > 0 && p <= MaxReportedPrice
}

// validationMessage 把校验错误转换为可读提示
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case tagTicketPrice:
		if v, ok := reportedValue(fe.Value()); ok && v > 0 {
			return "Price seems unrealistically high. Please verify."
		}
		return "Price must be positive"
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}

func reportedValue(v interface{}) (float64, bool) {
	switch p := v.(type) {
	case float64:
		return p, true
	case *float64:
		if p != nil {
			return *p, true
		}
	}
	return 0, false
}
