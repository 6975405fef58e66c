package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func gte(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// between returns a ParamValidator accepting values in the closed range [lo, hi].
func between(lo, hi int64) ParamValidator {
	lower := gte(lo)
	upper := newComparisonValidator(hi, func(argValue, closedValue int64) bool {
		return argValue <= closedValue
	})
	return func(v int64) bool {
		return lower(v) && upper(v)
	}
}

// ParseOptionalGte parses an int32 query parameter that must be >= min. Absent parameters yield def.
func ParseOptionalGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, min int64, def int32) (int32, bool) {
	return parseValidate(r, w, logger, key, gte(min), def)
}

// ParseOptionalBetween parses an int32 query parameter within [lo, hi]. Absent parameters yield def.
func ParseOptionalBetween(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, lo, hi int64, def int32) (int32, bool) {
	return parseValidate(r, w, logger, key, between(lo, hi), def)
}

// ParseOptionalFloat parses a float query parameter. Absent parameters yield nil.
func ParseOptionalFloat(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (*float64, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return nil, false
	}
	return &f, true
}

// ParseOptionalString returns a pointer to a non-empty query parameter, or nil.
func ParseOptionalString(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func parseValidate(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, pValidator ParamValidator, def int32) (int32, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, true
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return 0, false
	}
	return int32(intValue), true
}
