package registration

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// User-facing validation and submission messages.
const (
	MsgPhoneNotVerified     = "휴대폰 인증을 완료해주세요."
	MsgNameTooShort         = "이름은 2자 이상 입력해주세요."
	MsgNameTooLong          = "이름은 20자 이하로 입력해주세요."
	MsgIntroductionTooShort = "자기소개는 10자 이상 입력해주세요."
	MsgAreasEmpty           = "활동 지역을 1개 이상 선택해주세요."
	MsgSubmitFailed         = "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// Length limits, counted in characters.
const (
	NameMinLength         = 2
	NameMaxLength         = 20
	IntroductionMinLength = 10
	// IntroductionMaxLength caps the introduction input. The controller does
	// not enforce it.
	IntroductionMaxLength = 200
)

// Result is the outcome of validating a step: valid, or invalid with a
// message for display.
type Result struct {
	message string
	invalid bool
}

// Valid returns a passing result.
func Valid() Result {
	return Result{}
}

// Invalid returns a failing result carrying message.
func Invalid(message string) Result {
	return Result{message: message, invalid: true}
}

// OK reports whether the result is valid.
func (r Result) OK() bool {
	return !r.invalid
}

// Message returns the failure message, or "" when valid.
func (r Result) Message() string {
	return r.message
}

// Validator decides whether a step's data may be accepted.
type Validator func(Fields) Result

// ValidatePhoneVerified requires a completed phone verification.
func ValidatePhoneVerified(f Fields) Result {
	if !f.PhoneVerified {
		return Invalid(MsgPhoneNotVerified)
	}
	return Valid()
}

// ValidateName requires a trimmed name of 2 to 20 characters.
func ValidateName(f Fields) Result {
	n := CharLength(f.Name)
	switch {
	case n < NameMinLength:
		return Invalid(MsgNameTooShort)
	case n > NameMaxLength:
		return Invalid(MsgNameTooLong)
	default:
		return Valid()
	}
}

// ValidateIntroduction requires a trimmed introduction of at least 10
// characters.
func ValidateIntroduction(f Fields) Result {
	if CharLength(f.Introduction) < IntroductionMinLength {
		return Invalid(MsgIntroductionTooShort)
	}
	return Valid()
}

// ValidateServiceAreas requires at least one selected area.
func ValidateServiceAreas(f Fields) Result {
	if f.SelectedAreas.Len() == 0 {
		return Invalid(MsgAreasEmpty)
	}
	return Valid()
}

// ValidateCertifications accepts anything; certifications are optional.
func ValidateCertifications(Fields) Result {
	return Valid()
}

// CharLength counts the characters of s after trimming surrounding space.
// Input is NFC-normalized first so decomposed Hangul jamo count as one
// syllable each.
func CharLength(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(strings.TrimSpace(s)))
}
