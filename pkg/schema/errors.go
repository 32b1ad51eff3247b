package schema

import "fmt"

// SchemaError reports an invalid attribute registration or affects edge.
type SchemaError struct {
	Type      string // Node type name
	Attribute string // Offending attribute, empty when unknown
	Reason    string
}

func (e *SchemaError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("schema %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("schema %s: attribute %q: %s", e.Type, e.Attribute, e.Reason)
}

// ValidationError represents a single attribute value failure.
type ValidationError struct {
	Key    string // Attribute name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("attribute %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("attribute %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }
