package store

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/josephgoksu/crewboard/models"
	"github.com/josephgoksu/crewboard/types"
)

// applyPatch sets fields on a struct pointer from a map of JSON field
// names to new values. Unknown fields and unsupported conversions fail
// with ErrValidation so a malformed patch never half-applies silently;
// callers work on a copy and persist only on success.
func applyPatch(target interface{}, updates map[string]interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: patch target must be a struct pointer", types.ErrValidation)
	}
	elem := v.Elem()
	fields := jsonFieldIndex(elem.Type())

	for key, value := range updates {
		idx, ok := fields[key]
		if !ok {
			return fmt.Errorf("%w: unknown field %q", types.ErrValidation, key)
		}
		field := elem.Field(idx)
		if !field.CanSet() {
			return fmt.Errorf("%w: field %q cannot be set", types.ErrValidation, key)
		}
		val, err := convertValue(value, field.Type())
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", types.ErrValidation, key, err)
		}
		field.Set(val)
	}
	return nil
}

// jsonFieldIndex maps json tag names to struct field indices.
func jsonFieldIndex(t reflect.Type) map[string]int {
	out := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		out[name] = i
	}
	return out
}

// convertValue coerces a patch value into the target field type. It
// handles the enum string types used by board entities, string slices
// decoded as []interface{}, and optional *string fields.
func convertValue(value interface{}, targetType reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(targetType), nil
	}

	val := reflect.ValueOf(value)
	if val.Type() == targetType {
		return val, nil
	}

	if str, ok := value.(string); ok {
		switch targetType {
		case reflect.TypeOf(models.TaskStatus("")):
			return reflect.ValueOf(models.TaskStatus(str)), nil
		case reflect.TypeOf(models.SprintStatus("")):
			return reflect.ValueOf(models.SprintStatus(str)), nil
		case reflect.TypeOf(models.BacklogPriority("")):
			return reflect.ValueOf(models.BacklogPriority(str)), nil
		case reflect.TypeOf(models.Role("")):
			return reflect.ValueOf(models.Role(str)), nil
		}
		if targetType.Kind() == reflect.Ptr && targetType.Elem().Kind() == reflect.String {
			ptr := reflect.New(targetType.Elem())
			ptr.Elem().SetString(str)
			return ptr, nil
		}
	}

	if targetType == reflect.TypeOf([]string(nil)) {
		if raw, ok := value.([]interface{}); ok {
			out := make([]string, 0, len(raw))
			for _, item := range raw {
				str, ok := item.(string)
				if !ok {
					return reflect.Value{}, fmt.Errorf("expected string element, got %T", item)
				}
				out = append(out, str)
			}
			return reflect.ValueOf(out), nil
		}
	}

	if val.Type().ConvertibleTo(targetType) && val.Kind() == targetType.Kind() {
		return val.Convert(targetType), nil
	}

	return reflect.Value{}, fmt.Errorf("unsupported conversion from %T to %v", value, targetType)
}
