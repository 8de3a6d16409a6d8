package validation

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/timetable/internal/app/models"
)

// Request validation tags for grid cells
const (
	// TagDay accepts a Monday-first UI day, 0 (Monday) to 6 (Sunday)
	TagDay = "uiday"
	// TagPeriod accepts a zero-based period of the day
	TagPeriod = "period"
)

// Register adds the grid rules to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(TagDay, intRule(func(d int) bool {
		return d >= 0 && d < models.DaysPerWeek
	})); err != nil {
		return fmt.Errorf("failed to register %s rule: %w", TagDay, err)
	}
	if err := v.RegisterValidation(TagPeriod, intRule(models.ValidPeriod)); err != nil {
		return fmt.Errorf("failed to register %s rule: %w", TagPeriod, err)
	}
	return nil
}

// RegisterWithGin adds the grid rules to gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

func intRule(valid func(int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return valid(int(fl.Field().Int()))
		default:
			return false
		}
	}
}
