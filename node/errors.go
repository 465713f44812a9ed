package node

import (
	"fmt"
	"reflect"
)

// ConfigurationError reports a field whose declared type the engine cannot populate.
type ConfigurationError struct {
	// Field is the dotted path of the field from the mapped type.
	Field  string
	Type   reflect.Type
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("field %s of type %s: %s", e.Field, e.Type, e.Reason)
}

// InvalidKeyError reports a key path that resolves to no scalar field at its depth.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}
