package registration

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/felixgeelhaar/companion/internal/ports"
)

// FieldName identifies a wizard field for UpdateField.
type FieldName string

// Wizard fields.
const (
	FieldPhone          FieldName = "phone"
	FieldPhoneVerified  FieldName = "phoneVerified"
	FieldDisplayName    FieldName = "name"
	FieldIntroduction   FieldName = "introduction"
	FieldAreas          FieldName = "selectedAreas"
	FieldCertifications FieldName = "selectedCertifications"
)

// Field update errors.
var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldType    = errors.New("wrong value type for field")
)

// CodeSet is an order-independent set of catalog codes.
type CodeSet map[string]struct{}

// NewCodeSet creates a set holding codes. Blank codes are skipped.
func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

// Add inserts code.
func (s CodeSet) Add(code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}
	s[code] = struct{}{}
}

// Remove deletes code.
func (s CodeSet) Remove(code string) {
	delete(s, strings.TrimSpace(code))
}

// Has reports membership.
func (s CodeSet) Has(code string) bool {
	_, ok := s[strings.TrimSpace(code)]
	return ok
}

// Toggle flips membership of code and reports whether it is now selected.
func (s CodeSet) Toggle(code string) bool {
	if s.Has(code) {
		s.Remove(code)
		return false
	}
	s.Add(code)
	return s.Has(code)
}

// Len returns the number of codes.
func (s CodeSet) Len() int {
	return len(s)
}

// Sorted returns the codes in ascending order. Never nil.
func (s CodeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (s CodeSet) Clone() CodeSet {
	out := make(CodeSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Fields holds every value the wizard collects.
type Fields struct {
	Phone                  string
	PhoneVerified          bool
	Name                   string
	Introduction           string
	SelectedAreas          CodeSet
	SelectedCertifications CodeSet
}

// NewFields returns empty fields with initialized sets.
func NewFields() Fields {
	return Fields{
		SelectedAreas:          NewCodeSet(),
		SelectedCertifications: NewCodeSet(),
	}
}

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	out := f
	out.SelectedAreas = f.SelectedAreas.Clone()
	out.SelectedCertifications = f.SelectedCertifications.Clone()
	return out
}

// Payload builds the registration request body with sorted code lists.
func (f Fields) Payload() ports.RegistrationPayload {
	return ports.RegistrationPayload{
		Introduction:   strings.TrimSpace(f.Introduction),
		ServiceAreas:   f.SelectedAreas.Sorted(),
		Certifications: f.SelectedCertifications.Sorted(),
	}
}

// set assigns value to the named field.
func (f *Fields) set(name FieldName, value any) error {
	switch name {
	case FieldPhone, FieldDisplayName, FieldIntroduction:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s wants string, got %T", ErrFieldType, name, value)
		}
		switch name {
		case FieldPhone:
			f.Phone = s
		case FieldDisplayName:
			f.Name = s
		default:
			f.Introduction = s
		}
	case FieldPhoneVerified:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s wants bool, got %T", ErrFieldType, name, value)
		}
		f.PhoneVerified = b
	case FieldAreas, FieldCertifications:
		set, err := toCodeSet(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrFieldType, name, err)
		}
		if name == FieldAreas {
			f.SelectedAreas = set
		} else {
			f.SelectedCertifications = set
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

func toCodeSet(value any) (CodeSet, error) {
	switch v := value.(type) {
	case CodeSet:
		return v.Clone(), nil
	case []string:
		return NewCodeSet(v...), nil
	case nil:
		return NewCodeSet(), nil
	default:
		return nil, fmt.Errorf("want []string or CodeSet, got %T", value)
	}
}
