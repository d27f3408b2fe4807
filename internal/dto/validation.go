package dto

import (
	"sync"

	"github.com/SscSPs/myspendr/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the enum tags used by request DTOs.
// Only the first call registers; later calls are no-ops.
func RegisterValidators(v *validator.Validate) error {
	var err error
	registerOnce.Do(func() {
		rules := map[string]validator.Func{
			"direction": func(fl validator.FieldLevel) bool {
				return domain.Direction(fl.Field().String()).IsValid()
			},
			"source": func(fl validator.FieldLevel) bool {
				return domain.Source(fl.Field().String()).IsValid()
			},
			"category": func(fl validator.FieldLevel) bool {
				return domain.Category(fl.Field().String()).IsValid()
			},
		}
		for tag, fn := range rules {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}
