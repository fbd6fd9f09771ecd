package admin

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldErrors maps a JSON key to its problem
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for k, v := range e {
		parts = append(parts, k+" "+v)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type payload struct {
	columns   map[string]any
	relations map[string][]int64
}

// decodePayload checks body against the resource metadata. On create every
// required field must be present; on update only the given keys are checked.
func decodePayload(r *Resource, body map[string]any, creating bool) (*payload, FieldErrors) {
	p := &payload{columns: map[string]any{}, relations: map[string][]int64{}}
	errs := FieldErrors{}

	for key, raw := range body {
		if rel, ok := r.relation(key); ok {
			ids, err := toIDs(raw)
			if err != nil {
				errs[key] = err.Error()
				continue
			}
			p.relations[rel.Field] = ids
			continue
		}

		f, ok := r.field(key)
		switch {
		case !ok:
			errs[key] = "is not a writable field"
			continue
		case f.ReadOnly:
			errs[key] = "is read-only"
			continue
		case f.Immutable && !creating:
			errs[key] = "cannot be changed"
			continue
		}

		if raw == nil {
			if !f.Nullable {
				errs[key] = "must not be null"
				continue
			}
			p.columns[key] = nil
			continue
		}

		value, err := coerce(f.Type, raw)
		if err != nil {
			errs[key] = err.Error()
			continue
		}
		if f.Rules != "" {
			if err := validate.Var(value, f.Rules); err != nil {
				errs[key] = ruleMessage(err)
				continue
			}
		}
		p.columns[key] = value
	}

	if creating {
		for _, f := range r.Fields {
			if _, given := body[f.Name]; !given && hasRule(f.Rules, "required") {
				errs[f.Name] = "is required"
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return p, nil
}

// coerce converts a decoded JSON value to the Go type of the column
func coerce(t FieldType, raw any) (any, error) {
	switch t {
	case TypeString, TypeText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string")
		}
		return s, nil
	case TypeInt:
		n, ok := raw.(float64)
		if !ok || n != math.Trunc(n) {
			return nil, fmt.Errorf("must be an integer")
		}
		return int64(n), nil
	case TypeFloat:
		n, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("must be a number")
		}
		return n, nil
	case TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("must be a boolean")
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported type %q", t)
}

// parseFilter converts a query-string filter value by field type
func parseFilter(t FieldType, s string) (any, error) {
	switch t {
	case TypeInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("must be an integer")
		}
		return n, nil
	case TypeFloat:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return n, nil
	case TypeBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("must be a boolean")
		}
		return b, nil
	}
	return s, nil
}

func toIDs(raw any) ([]int64, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("must be a list of ids")
	}
	seen := make(map[int64]bool, len(list))
	ids := make([]int64, 0, len(list))
	for _, item := range list {
		n, ok := item.(float64)
		if !ok || n < 1 || n != math.Trunc(n) {
			return nil, fmt.Errorf("must contain positive integer ids")
		}
		id := int64(n)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func hasRule(rules, name string) bool {
	for _, r := range strings.Split(rules, ",") {
		if r == name {
			return true
		}
	}
	return false
}

func ruleMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "is invalid"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max", "len":
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	case "uuid":
		return "must be a UUID"
	case "url":
		return "must be a valid URL"
	}
	return "failed " + fe.Tag()
}
