package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"navy-training/backend/internal/model"
)

// RegisterValidators 在 gin 的校验引擎上注册自定义标签
//   - isodate: YYYY-MM-DD
//   - hhmm:    24 小时制 HH:MM
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return model.IsHHMM(fl.Field().String())
	})
}
