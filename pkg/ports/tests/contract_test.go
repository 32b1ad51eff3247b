package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/schema"
)

func buildSchema(t *testing.T) (*schema.Schema, schema.Handle, schema.Handle) {
	t.Helper()
	b := schema.NewBuilder("sample", 0x7f0010)
	in, err := b.Input("input", "in", schema.Float(), 0.0, schema.DefaultInputFlags)
	if err != nil {
		t.Fatal(err)
	}
	out, err := b.Output("output", "out", schema.Float(), 0.0, schema.DefaultOutputFlags)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Affects(in, out); err != nil {
		t.Fatal(err)
	}
	s, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return s, in, out
}

func TestContext_SetClean(t *testing.T) {
	s, in, out := buildSchema(t)
	ec := NewContext(s)

	var wrongDir *domain.WrongDirectionError
	if err := ec.SetClean(in); !errors.As(err, &wrongDir) {
		t.Errorf("SetClean(input) = %v, want WrongDirectionError", err)
	}
	if ec.Clean[in] {
		t.Error("input was marked clean")
	}

	other := schema.NewBuilder("foreign", 0)
	foreign, _ := other.Output("y", "y", schema.Float(), nil, 0)
	if err := ec.SetClean(foreign); !errors.As(err, &wrongDir) {
		t.Errorf("SetClean(foreign) = %v, want WrongDirectionError", err)
	}

	if err := ec.SetClean(out); !errors.Is(err, domain.ErrCleanWithoutWrite) {
		t.Errorf("SetClean before write = %v, want ErrCleanWithoutWrite", err)
	}
	if err := ec.SetOutput(out, 1.0); err != nil {
		t.Fatal(err)
	}
	if err := ec.SetClean(out); err != nil {
		t.Fatalf("SetClean: %v", err)
	}
	if err := ec.SetClean(out); !errors.Is(err, domain.ErrAlreadyClean) {
		t.Errorf("second SetClean = %v, want ErrAlreadyClean", err)
	}
}

func TestContext_Direction(t *testing.T) {
	s, in, out := buildSchema(t)
	ec := NewContext(s)

	var stale *domain.StaleReadError
	if _, err := ec.Input(out); !errors.As(err, &stale) {
		t.Errorf("Input(output) = %v, want StaleReadError", err)
	}
	var wrongDir *domain.WrongDirectionError
	if err := ec.SetOutput(in, 1.0); !errors.As(err, &wrongDir) {
		t.Errorf("SetOutput(input) = %v, want WrongDirectionError", err)
	}
	if ec.Reads != 0 {
		t.Errorf("Reads = %d, want 0", ec.Reads)
	}
}
