package testutil

import (
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/companion/internal/domain/registration"
)

// Values that pass every registration step.
const (
	ValidPhone        = "01012345678"
	ValidCode         = "123456"
	ValidName         = "김하나"
	ValidIntroduction = "어르신을 가족처럼 정성껏 모시겠습니다."
	ValidArea         = "seoul-mapo"
)

// FieldsBuilder builds registration fields for tests.
type FieldsBuilder struct {
	fields registration.Fields
	code   string
}

// NewFieldsBuilder starts from empty fields.
func NewFieldsBuilder() *FieldsBuilder {
	return &FieldsBuilder{fields: registration.NewFields()}
}

// CompleteFields returns a builder whose fields pass every step.
func CompleteFields() *FieldsBuilder {
	return NewFieldsBuilder().
		WithVerifiedPhone(ValidPhone).
		WithName(ValidName).
		WithIntroduction(ValidIntroduction).
		WithAreas(ValidArea)
}

// WithPhone sets an unverified phone number.
func (b *FieldsBuilder) WithPhone(phone string) *FieldsBuilder {
	b.fields.Phone = phone
	b.fields.PhoneVerified = false
	return b
}

// WithVerifiedPhone sets a verified phone number.
func (b *FieldsBuilder) WithVerifiedPhone(phone string) *FieldsBuilder {
	b.fields.Phone = phone
	b.fields.PhoneVerified = true
	return b
}

// WithCode sets the SMS code written by ToYAML.
func (b *FieldsBuilder) WithCode(code string) *FieldsBuilder {
	b.code = code
	return b
}

// WithName sets the display name.
func (b *FieldsBuilder) WithName(name string) *FieldsBuilder {
	b.fields.Name = name
	return b
}

// WithIntroduction sets the introduction.
func (b *FieldsBuilder) WithIntroduction(intro string) *FieldsBuilder {
	b.fields.Introduction = intro
	return b
}

// WithAreas selects service areas.
func (b *FieldsBuilder) WithAreas(codes ...string) *FieldsBuilder {
	for _, c := range codes {
		b.fields.SelectedAreas.Add(c)
	}
	return b
}

// WithoutAreas clears the selected areas.
func (b *FieldsBuilder) WithoutAreas() *FieldsBuilder {
	b.fields.SelectedAreas = registration.NewCodeSet()
	return b
}

// WithCertifications selects certifications.
func (b *FieldsBuilder) WithCertifications(codes ...string) *FieldsBuilder {
	for _, c := range codes {
		b.fields.SelectedCertifications.Add(c)
	}
	return b
}

// Build returns a copy of the fields.
func (b *FieldsBuilder) Build() registration.Fields {
	return b.fields.Clone()
}

// ToYAML renders the fields in the register --from-file answers format.
func (b *FieldsBuilder) ToYAML() string {
	doc := struct {
		Phone          string   `yaml:"phone"`
		Code           string   `yaml:"code,omitempty"`
		Name           string   `yaml:"name,omitempty"`
		Introduction   string   `yaml:"introduction,omitempty"`
		Areas          []string `yaml:"areas,omitempty"`
		Certifications []string `yaml:"certifications,omitempty"`
	}{
		Phone:          b.fields.Phone,
		Code:           b.code,
		Name:           b.fields.Name,
		Introduction:   b.fields.Introduction,
		Areas:          b.fields.SelectedAreas.Sorted(),
		Certifications: b.fields.SelectedCertifications.Sorted(),
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(out)
}
