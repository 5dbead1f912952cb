// Package validator registers custom rules on gin's binding engine.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Spanish postal codes run from 01000 to 52999, the first two digits being
// the province.
var spanishPostcode = regexp.MustCompile(`^(0[1-9]|[1-4][0-9]|5[0-2])[0-9]{3}$`)

// RegisterBindingRules installs the custom binding tags used by the request
// structs. Must be called once before the router starts serving.
func RegisterBindingRules() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	return engine.RegisterValidation("es_postcode", func(fl validator.FieldLevel) bool {
		return spanishPostcode.MatchString(fl.Field().String())
	})
}
