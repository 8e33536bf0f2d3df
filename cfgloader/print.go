package cfgloader

import (
	"fmt"
	"log/slog"
	"reflect"

	"gopkg.in/yaml.v3"
)

const maskedValue = "******"

func printConfig(config any) {
	out, err := yaml.Marshal(maskValue(reflect.ValueOf(config)).Interface())
	if err != nil {
		slog.Error("[cfgloader]: failed to marshal config", "error", err.Error())
		return
	}
	slog.Info(fmt.Sprintf("[cfgloader]: loaded config:\n%s", string(out)))
}

// maskValue returns a copy of val where string fields tagged `mask:"true"` are replaced
// and other masked fields are zeroed. Nested structs and pointers to structs are walked.
func maskValue(val reflect.Value) reflect.Value {
	switch val.Kind() { //nolint:exhaustive // only structs and pointers carry fields to mask
	case reflect.Ptr:
		if val.IsNil() {
			return val
		}
		ptr := reflect.New(val.Elem().Type())
		ptr.Elem().Set(maskValue(val.Elem()))
		return ptr

	case reflect.Struct:
		masked := reflect.New(val.Type()).Elem()
		for i := range val.NumField() {
			field := val.Type().Field(i)
			if !field.IsExported() {
				continue
			}

			orig := val.Field(i)
			if field.Tag.Get("mask") != "true" {
				masked.Field(i).Set(maskValue(orig))
				continue
			}

			if orig.Kind() == reflect.String {
				if orig.String() != "" {
					masked.Field(i).SetString(maskedValue)
				}
				continue
			}
			// non-string secrets are left zeroed
		}
		return masked

	default:
		return val
	}
}
