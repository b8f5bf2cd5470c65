// Package validation registers the custom binding tags used by the web
// forms and the auth API.
package validation

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once        sync.Once
	registerErr error
)

// Register adds the custom tags to gin's validator. Safe to call repeatedly.
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = v.RegisterValidation("username", Username)
	})
	return registerErr
}

// Username allows letters, digits, dots, hyphens and underscores only
func Username(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, char := range value {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '-' ||
			char == '_' ||
			char == '.') {
			return false
		}
	}
	return true
}
