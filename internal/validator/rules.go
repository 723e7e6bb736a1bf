package validator

import (
	"log"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var moneyPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// registerCustomRules registers the custom validation functions.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'money': positive decimal with at most two decimal places.
	mustRegister("money", validateMoney)
}

func validateMoney(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empties
	}
	if !moneyPattern.MatchString(value) {
		return false
	}
	amount, err := strconv.ParseFloat(value, 64)
	return err == nil && amount > 0
}
