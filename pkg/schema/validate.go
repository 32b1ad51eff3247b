package schema

import "sort"

// Values maps attribute handles to canonical values.
type Values map[Handle]any

// Coerce converts loosely typed values keyed by attribute name (long or
// short) into canonical values keyed by handle.
// Returns an AggregateError with every failure found.
func Coerce(s *Schema, data map[string]any) (Values, error) {
	if len(data) == 0 {
		return Values{}, nil
	}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Values, len(data))
	var errs []error

	for _, name := range names {
		value := data[name]
		h, ok := s.Lookup(name)
		if !ok {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: "not defined in schema",
				Value:  nil,
			})
			continue
		}

		attr := s.attrs[h.index]
		v, err := attr.Type.Coerce(value)
		if err != nil {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: err.Error(),
				Value:  value,
			})
			continue
		}
		out[h] = v
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return out, nil
}
