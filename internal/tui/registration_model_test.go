package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/companion/internal/domain/catalog"
	"github.com/felixgeelhaar/companion/internal/domain/preferences"
	"github.com/felixgeelhaar/companion/internal/domain/registration"
	"github.com/felixgeelhaar/companion/internal/testutil"
	"github.com/felixgeelhaar/companion/internal/testutil/mocks"
	"github.com/felixgeelhaar/companion/internal/tui/components"
	"github.com/felixgeelhaar/companion/internal/tui/ui"
)

const testPhone = testutil.ValidPhone

type harness struct {
	verifier  *mocks.PhoneVerifier
	registrar *mocks.Registrar
	nav       *mocks.Navigator
	wizard    *registration.Wizard
	opts      RegistrationOptions
}

func newHarness(t *testing.T, wizardOpts ...registration.Option) *harness {
	t.Helper()

	h := &harness{
		verifier:  mocks.NewPhoneVerifier(testutil.ValidCode),
		registrar: mocks.NewRegistrar(),
		nav:       &mocks.Navigator{},
	}

	w, err := registration.NewWizard(h.registrar, h.nav, wizardOpts...)
	require.NoError(t, err)
	h.wizard = w

	cat, err := catalog.Default()
	require.NoError(t, err)

	h.opts = RegistrationOptions{
		Wizard:   w,
		Verifier: h.verifier,
		Catalog:  cat,
		Scale:    preferences.ScaleMedium,
	}
	return h
}

func (h *harness) model() registrationModel {
	return newRegistrationModel(context.Background(), h.opts)
}

func verifiedFields() registration.Fields {
	return testutil.NewFieldsBuilder().WithVerifiedPhone(testPhone).Build()
}

func update(t *testing.T, m registrationModel, msg tea.Msg) (registrationModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(registrationModel)
	require.True(t, ok)
	return out, cmd
}

// run executes cmd and every command inside a batch, returning the
// messages. Only use it on commands known not to block on timers.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func typeText(t *testing.T, m registrationModel, s string) registrationModel {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(t *testing.T, m registrationModel, k tea.KeyType) (registrationModel, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestRegistrationModel_FullFlow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := h.model()
	assert.Equal(t, registration.StepPhone, m.step())

	m = typeText(t, m, testPhone)
	assert.Equal(t, "010-1234-5678", m.phoneInput.Value())
	assert.Equal(t, testPhone, h.wizard.Fields().Phone)

	m, cmd := press(t, m, tea.KeyEnter)
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	m, _ = update(t, m, msgs[0])
	assert.True(t, m.codeSent)
	assert.Equal(t, focusCode, m.focus)
	assert.Equal(t, 60, m.cooldown)
	assert.Len(t, h.verifier.Sent(), 1)

	m = typeText(t, m, "123456")
	m, cmd = press(t, m, tea.KeyEnter)
	msgs = run(cmd)
	require.Len(t, msgs, 1)
	m, _ = update(t, m, msgs[0])
	assert.True(t, h.wizard.Fields().PhoneVerified)
	assert.Contains(t, m.View(), "인증이 완료되었습니다")

	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, registration.StepName, m.step())

	m = typeText(t, m, "김하나")
	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, registration.StepIntroduction, m.step())

	m = typeText(t, m, "어르신을 가족처럼 정성껏 모시겠습니다.")
	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, registration.StepServiceAreas, m.step())

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	msgs = run(cmd)
	require.Len(t, msgs, 1)
	m, _ = update(t, m, msgs[0])
	assert.Equal(t, 1, h.wizard.Fields().SelectedAreas.Len())
	assert.Equal(t, 1, m.areaList.CheckedCount())

	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, registration.StepCertifications, m.step())

	m, cmd = press(t, m, tea.KeyEnter)
	assert.True(t, m.submitting)

	var done *ui.SubmitDoneMsg
	for _, msg := range run(cmd) {
		if d, ok := msg.(ui.SubmitDoneMsg); ok {
			done = &d
		}
	}
	require.NotNil(t, done)
	assert.Equal(t, registration.SubmitSucceeded, done.Outcome)

	m, cmd = update(t, m, *done)
	assert.True(t, m.done)
	assert.True(t, isQuit(cmd))
	assert.Contains(t, m.View(), "등록이 완료되었습니다")
	assert.Contains(t, m.View(), "김하나")

	require.Len(t, h.registrar.Payloads(), 1)
	payload := h.registrar.Payloads()[0]
	assert.Equal(t, "어르신을 가족처럼 정성껏 모시겠습니다.", payload.Introduction)
	assert.Len(t, payload.ServiceAreas, 1)
	assert.Empty(t, payload.Certifications)
	assert.Equal(t, []string{registration.DefaultCompletionPath}, h.nav.Paths())
}

func TestRegistrationModel_InvalidPhoneDoesNotSend(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := typeText(t, h.model(), "0212345678")

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, msgInvalidPhone, h.wizard.ErrorMessage())
	assert.Contains(t, m.View(), msgInvalidPhone)
	assert.Empty(t, h.verifier.Sent())
}

func TestRegistrationModel_SendCodeFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := typeText(t, h.model(), testPhone)

	m, _ = update(t, m, ui.CodeSentMsg{Phone: testPhone, Err: errors.New("timeout")})
	assert.False(t, m.codeSent)
	assert.Equal(t, msgSendFailed, h.wizard.ErrorMessage())

	m, _ = update(t, m, ui.CodeSentMsg{Phone: testPhone, Err: registration.NewFailure("잠시 후 다시 요청해주세요.")})
	assert.Equal(t, "잠시 후 다시 요청해주세요.", h.wizard.ErrorMessage())
	assert.False(t, m.sending)
}

func TestRegistrationModel_CodeMismatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := typeText(t, h.model(), testPhone)
	m, _ = update(t, m, ui.CodeSentMsg{Phone: testPhone})

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, msgCodeRequired, h.wizard.ErrorMessage())

	m = typeText(t, m, "999999")
	m, cmd = press(t, m, tea.KeyEnter)
	msgs := run(cmd)
	require.Len(t, msgs, 1)
	m, _ = update(t, m, msgs[0])

	assert.Equal(t, msgCodeMismatch, h.wizard.ErrorMessage())
	assert.False(t, h.wizard.Fields().PhoneVerified)

	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, registration.StepPhone, m.step())
}

func TestRegistrationModel_EditingPhoneRevokesVerification(t *testing.T) {
	t.Parallel()

	h := newHarness(t, registration.WithInitialFields(verifiedFields()))
	m := h.model()
	assert.Equal(t, "010-1234-5678", m.phoneInput.Value())
	assert.True(t, m.codeSent)

	m, _ = press(t, m, tea.KeyBackspace)

	assert.False(t, h.wizard.Fields().PhoneVerified)
	assert.Equal(t, "0101234567", h.wizard.Fields().Phone)
	assert.False(t, m.codeSent)
	assert.Equal(t, focusPhone, m.focus)
}

func TestRegistrationModel_StaleConfirmationIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := typeText(t, h.model(), testPhone)

	m, _ = update(t, m, ui.CodeConfirmedMsg{Phone: "01099998888", Verified: true})
	assert.False(t, h.wizard.Fields().PhoneVerified)
	assert.False(t, m.checking)
}

func TestRegistrationModel_Cooldown(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := typeText(t, h.model(), testPhone)
	m, _ = update(t, m, ui.CodeSentMsg{Phone: testPhone})
	require.Equal(t, 60, m.cooldown)

	m, cmd := update(t, m, ui.CooldownTickMsg{Seq: m.cooldownSeq})
	assert.Equal(t, 59, m.cooldown)
	assert.NotNil(t, cmd)

	m, cmd = update(t, m, ui.CooldownTickMsg{Seq: m.cooldownSeq - 1})
	assert.Equal(t, 59, m.cooldown)
	assert.Nil(t, cmd)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "59초")

	m.cooldown = 1
	m, cmd = update(t, m, ui.CooldownTickMsg{Seq: m.cooldownSeq})
	assert.Zero(t, m.cooldown)
	assert.Nil(t, cmd)

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	run(cmd)
	assert.Len(t, h.verifier.Sent(), 1)
}

func TestRegistrationModel_TabSwitchesPhoneInputs(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := typeText(t, h.model(), testPhone)

	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, focusPhone, m.focus)

	m, _ = update(t, m, ui.CodeSentMsg{Phone: testPhone})
	assert.Equal(t, focusCode, m.focus)

	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, focusPhone, m.focus)
}

func TestRegistrationModel_ValidationBlocksNext(t *testing.T) {
	t.Parallel()

	h := newHarness(t, registration.WithInitialFields(verifiedFields()))
	m, _ := press(t, h.model(), tea.KeyEnter)
	require.Equal(t, registration.StepName, m.step())

	m = typeText(t, m, "김")
	m, _ = press(t, m, tea.KeyEnter)

	assert.Equal(t, registration.StepName, m.step())
	assert.Equal(t, registration.MsgNameTooShort, h.wizard.ErrorMessage())
	assert.Contains(t, m.View(), registration.MsgNameTooShort)
	assert.Contains(t, m.View(), "1/20자")
}

func TestRegistrationModel_IntroductionCounter(t *testing.T) {
	t.Parallel()

	h := newHarness(t, registration.WithInitialFields(verifiedFields()))
	m, _ := press(t, h.model(), tea.KeyEnter)
	m = typeText(t, m, "김하나")
	m, _ = press(t, m, tea.KeyEnter)
	require.Equal(t, registration.StepIntroduction, m.step())

	m = typeText(t, m, "짧은 소개")
	assert.Contains(t, m.View(), "5/200자 (최소 10자)")

	m = typeText(t, m, " 입니다 반갑습니다")
	assert.Contains(t, m.View(), "15/200자")
	assert.NotContains(t, m.View(), "최소")
}

func TestRegistrationModel_BackKeepsValues(t *testing.T) {
	t.Parallel()

	h := newHarness(t, registration.WithInitialFields(verifiedFields()))
	m, _ := press(t, h.model(), tea.KeyEnter)
	m = typeText(t, m, "김하나")
	m, _ = press(t, m, tea.KeyEnter)
	require.Equal(t, registration.StepIntroduction, m.step())

	m, _ = press(t, m, tea.KeyEsc)
	assert.Equal(t, registration.StepName, m.step())
	assert.Equal(t, "김하나", m.nameInput.Value())
	assert.Equal(t, "김하나", h.wizard.Fields().Name)
	assert.Equal(t, registration.StatusActive, m.stepper.Items()[1].Status)
}

func TestRegistrationModel_EscOnFirstStepQuitsWhenClean(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m, cmd := press(t, h.model(), tea.KeyEsc)

	assert.True(t, m.cancelled)
	assert.True(t, isQuit(cmd))
	assert.Equal(t, registration.PhaseDiscarded, h.wizard.Phase())
}

func TestRegistrationModel_DiscardPrompt(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := typeText(t, h.model(), "010")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.True(t, m.prompting)
	assert.Contains(t, m.View(), msgDiscardPrompt)

	m, _ = update(t, m, components.ConfirmResultMsg{Confirmed: false})
	assert.False(t, m.prompting)
	assert.False(t, m.cancelled)
	assert.Equal(t, registration.PhaseEditing, h.wizard.Phase())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	m, cmd = update(t, m, components.ConfirmResultMsg{Confirmed: true})
	assert.True(t, m.cancelled)
	assert.True(t, isQuit(cmd))
	assert.Equal(t, registration.PhaseDiscarded, h.wizard.Phase())
}

func TestRegistrationModel_AreaFilter(t *testing.T) {
	t.Parallel()

	fields := testutil.CompleteFields().WithoutAreas().Build()
	h := newHarness(t, registration.WithInitialFields(fields))

	m, _ := press(t, h.model(), tea.KeyEnter)
	m, _ = press(t, m, tea.KeyEnter)
	m, _ = press(t, m, tea.KeyEnter)
	require.Equal(t, registration.StepServiceAreas, m.step())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	assert.True(t, m.areaSearch.Focused())

	m, _ = update(t, m, components.SearchChangeMsg{Query: "마포"})
	require.Len(t, m.areaList.Visible(), 1)
	assert.Equal(t, "seoul-mapo", m.areaList.Visible()[0].ID)

	// enter belongs to the search box while it is focused
	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, registration.StepServiceAreas, m.step())
	assert.False(t, m.areaSearch.Focused())

	m, _ = press(t, m, tea.KeyEnter)
	assert.Equal(t, registration.StepServiceAreas, m.step())
	assert.Equal(t, registration.MsgAreasEmpty, h.wizard.ErrorMessage())

	m, _ = update(t, m, components.ListToggledMsg{Item: m.areaList.Visible()[0]})
	assert.True(t, h.wizard.Fields().SelectedAreas.Has("seoul-mapo"))

	m, _ = update(t, m, components.SearchDoneMsg{Cleared: true})
	assert.Greater(t, len(m.areaList.Visible()), 1)
}

func TestRegistrationModel_PreferredRegionFirst(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.opts.PreferredRegion = "부산"
	m := h.model()

	assert.Equal(t, "부산", m.areaList.Items()[0].Description)
}

func TestRegistrationModel_SubmitFailureShowsMessage(t *testing.T) {
	t.Parallel()

	fields := testutil.CompleteFields().Build()
	h := newHarness(t, registration.WithInitialFields(fields))
	h.registrar.FailWith(errors.New("503"))

	m := h.model()
	for range 4 {
		m, _ = press(t, m, tea.KeyEnter)
	}
	require.Equal(t, registration.StepCertifications, m.step())
	assert.Equal(t, 1, m.areaList.CheckedCount())

	m, cmd := press(t, m, tea.KeyEnter)
	for _, msg := range run(cmd) {
		if done, ok := msg.(ui.SubmitDoneMsg); ok {
			m, cmd = update(t, m, done)
		}
	}

	assert.False(t, m.done)
	assert.False(t, m.submitting)
	assert.False(t, isQuit(cmd))
	assert.Equal(t, registration.SubmitFailed, m.outcome)
	assert.Contains(t, m.View(), registration.MsgSubmitFailed)
	assert.Empty(t, h.nav.Paths())
}

func TestRegistrationModel_KeysIgnoredWhileSubmitting(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	m := h.model()
	m.submitting = true

	m, cmd := press(t, m, tea.KeyEsc)
	assert.Nil(t, cmd)
	assert.False(t, m.cancelled)
	assert.Equal(t, registration.StepPhone, m.step())
}

func TestRegistrationModel_WindowSizeCappedByScale(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.opts.Scale = preferences.ScaleSmall
	m := h.model()
	assert.Equal(t, 60, m.width)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 50})
	assert.Equal(t, 60, m.width)
	assert.Equal(t, 50, m.height)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	assert.Equal(t, 40, m.width)
}

func TestRegistrationOptions_Validate(t *testing.T) {
	t.Parallel()

	err := RegistrationOptions{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard")
	assert.Contains(t, err.Error(), "verifier")
	assert.Contains(t, err.Error(), "catalog")

	h := newHarness(t)
	assert.NoError(t, h.opts.Validate())
}

func TestRegistrationResult_Completed(t *testing.T) {
	t.Parallel()

	assert.True(t, RegistrationResult{Outcome: registration.SubmitSucceeded}.Completed())
	assert.False(t, RegistrationResult{Outcome: registration.SubmitFailed, Cancelled: true}.Completed())
}

func TestRegistrationModel_PanelTitleShowsStep(t *testing.T) {
	t.Parallel()

	h := newHarness(t, registration.WithInitialFields(testutil.CompleteFields().Build()))
	m := h.model()
	assert.Contains(t, m.View(), "1/5 휴대폰 인증")

	for range 4 {
		m, _ = press(t, m, tea.KeyEnter)
	}
	assert.Contains(t, m.View(), "5/5 자격증 (선택)")
}
