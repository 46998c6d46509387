package validator

import (
	"net/url"
	"regexp"
	"strings"

	"skillswap_backend/internal/logger"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{4,15}$`)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			logger.Fatal("failed to register custom validation tag", "tag", tag, "error", err)
		}
	}

	// 'username': profile usernames
	mustRegister("username", validateUsername)

	// 'http-url': skill video links must be absolute http(s) URLs
	mustRegister("http-url", validateHTTPURL)

	// 'not-blank': rejects whitespace-only strings
	mustRegister("not-blank", validateNotBlank)
}

func validateUsername(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty values
	}
	return usernamePattern.MatchString(value)
}

func validateHTTPURL(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
