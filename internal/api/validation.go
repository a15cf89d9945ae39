package api

import (
	"encoding/json" // JSON error inspection
	"errors"        // Error classification
	"net/http"      // HTTP status codes
	"reflect"       // Struct tag access
	"strings"       // String manipulation
	"sync"          // One-time validator setup
	"time"          // Date parsing

	"budgetin/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"                                       // Gin web framework
	"github.com/gin-gonic/gin/binding"                               // Gin binding engine
	"github.com/go-playground/validator/v10"                         // Struct validation
	"github.com/go-playground/validator/v10/non-standard/validators" // notblank rule
	"github.com/shopspring/decimal"                                  // Fixed-point money
)

var validationOnce sync.Once

// setupValidation teaches gin's validator about json names and decimals
func setupValidation() {
	validationOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

// respondBindError answers a failed ShouldBindJSON with 422 and per-field rules
func respondBindError(c *gin.Context, err error) {
	fields := gin.H{}
	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fields[typeErr.Field] = "type"
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "fields": fields})
}

// respondFieldError answers 422 for a single field rule checked outside the binder
func respondFieldError(c *gin.Context, field, rule string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "fields": gin.H{field: rule}})
}

// checkMoney reports whether d fits the stored precision
func checkMoney(c *gin.Context, field string, d *decimal.Decimal) bool {
	if d != nil && !domain.ValidMoney(*d) {
		respondFieldError(c, field, "money")
		return false
	}
	return true
}

// parseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates. A plain
// date used as an upper bound covers the whole day.
func parseDate(s string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}
