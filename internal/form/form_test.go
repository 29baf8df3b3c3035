package form

import (
	"errors"
	"testing"
)

func buildForm() *Form {
	f := New()
	f.Add(Field{Label: "Full Name", Kind: KindText, Required: true})
	f.Add(Field{Label: "Notes", Kind: KindMultiline})
	f.Add(Field{Label: "Priority", Kind: KindChoice, Options: []string{"low", "high"}})
	f.Add(Field{Label: "Urgent", Kind: KindBoolean})
	f.Add(Field{Label: "Due Date", Kind: KindDate})
	return f
}

func TestValidateRequired(t *testing.T) {
	f := buildForm()

	err := f.Validate()
	if err == nil {
		t.Fatal("expected validation failure for empty required field")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err type = %T, want *ValidationError", err)
	}
	if ve.Label != "Full Name" {
		t.Errorf("label = %q, want %q", ve.Label, "Full Name")
	}
	if !errors.Is(err, ErrRequiredEmpty) {
		t.Error("error should unwrap to ErrRequiredEmpty")
	}

	f.SetValue(0, "Dev Example")
	if err := f.Validate(); err != nil {
		t.Errorf("validate after fill: %v", err)
	}
}

func TestValidateWhitespaceOnlyRequired(t *testing.T) {
	f := New().Add(Field{Label: "Name", Required: true})
	f.SetValue(0, "   ")

	if err := f.Validate(); err == nil {
		t.Error("whitespace-only value should fail a required field")
	}
}

func TestValidateEmptyForm(t *testing.T) {
	if err := New().Validate(); !errors.Is(err, ErrNoFields) {
		t.Errorf("err = %v, want ErrNoFields", err)
	}
}

func TestSerialize(t *testing.T) {
	f := buildForm()
	f.SetValue(0, "Dev Example")
	f.SetValue(1, "call back monday")
	f.SetValue(2, "high")
	f.SetValue(3, "true")
	f.SetValue(4, "2026-09-01")

	want := "full name: Dev Example\n" +
		"notes: call back monday\n" +
		"priority: high\n" +
		"urgent: true\n" +
		"due date: 2026-09-01"

	if got := f.Serialize(); got != want {
		t.Errorf("serialize = %q, want %q", got, want)
	}
}

func TestSerializePreservesFieldOrder(t *testing.T) {
	f := New().
		Add(Field{Label: "Zeta"}).
		Add(Field{Label: "Alpha"})
	f.SetValue(0, "1")
	f.SetValue(1, "2")

	if got := f.Serialize(); got != "zeta: 1\nalpha: 2" {
		t.Errorf("serialize = %q, want declaration order kept", got)
	}
}

func TestSetValueOutOfRange(t *testing.T) {
	f := New().Add(Field{Label: "only"})
	// Must not panic.
	f.SetValue(-1, "x")
	f.SetValue(5, "x")

	if f.Fields()[0].Value != "" {
		t.Error("out-of-range SetValue must not touch fields")
	}
}
