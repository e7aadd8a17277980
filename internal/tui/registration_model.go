package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/companion/internal/domain/catalog"
	"github.com/felixgeelhaar/companion/internal/domain/registration"
	"github.com/felixgeelhaar/companion/internal/ports"
	"github.com/felixgeelhaar/companion/internal/tui/components"
	"github.com/felixgeelhaar/companion/internal/tui/ui"
)

// Messages shown by the phone step. Validation messages come from the
// registration package.
const (
	msgInvalidPhone  = "올바른 휴대폰 번호를 입력해주세요."
	msgCodeMismatch  = "인증번호가 일치하지 않습니다."
	msgCodeRequired  = "인증번호를 입력해주세요."
	msgSendFailed    = "인증번호 전송에 실패했습니다. 잠시 후 다시 시도해주세요."
	msgConfirmFailed = "인증 확인 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	msgDiscardPrompt = "작성 중인 내용이 사라집니다. 등록을 그만두시겠습니까?"
)

type phoneFocus int

const (
	focusPhone phoneFocus = iota
	focusCode
)

// registrationModel drives a registration.Wizard from the terminal. The
// wizard owns every field value and the step index; the model owns only
// input widgets and phone verification progress.
type registrationModel struct {
	ctx      context.Context
	wizard   *registration.Wizard
	verifier ports.PhoneVerifier
	catalog  *catalog.Catalog
	opts     RegistrationOptions

	styles ui.Styles
	keys   ui.KeyMap
	width  int
	height int

	phoneInput  textinput.Model
	codeInput   textinput.Model
	focus       phoneFocus
	codeSent    bool
	sending     bool
	checking    bool
	cooldown    int
	cooldownSeq int

	nameInput  textinput.Model
	introInput textarea.Model
	areaList   components.List
	areaSearch components.Search
	certList   components.List

	stepper components.Stepper
	spinner components.Spinner

	confirm    components.Confirm
	prompting  bool
	submitting bool
	outcome    registration.SubmitOutcome
	done       bool
	cancelled  bool
}

func newRegistrationModel(ctx context.Context, opts RegistrationOptions) registrationModel {
	styles := ui.DefaultStyles()
	width := opts.Scale.Width()

	phone := textinput.New()
	phone.Placeholder = "010-0000-0000"
	phone.CharLimit = ui.PhoneCharLimit
	phone.Prompt = "휴대폰 번호  "

	code := textinput.New()
	code.Placeholder = "6자리"
	code.CharLimit = ui.CodeCharLimit
	code.Prompt = "인증번호    "

	name := textinput.New()
	name.Placeholder = "홍길동"
	name.CharLimit = ui.NameCharLimit
	name.Prompt = "이름  "

	intro := textarea.New()
	intro.Placeholder = "어떤 동반자인지 소개해주세요. (10자 이상)"
	intro.CharLimit = registration.IntroductionMaxLength
	intro.ShowLineNumbers = false
	intro.SetHeight(5)
	intro.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")

	areaItems := make([]components.ListItem, 0)
	for _, e := range opts.Catalog.AreasPreferring(opts.PreferredRegion) {
		areaItems = append(areaItems, components.ListItem{ID: e.Code, Title: e.Label, Description: e.Region})
	}
	certItems := make([]components.ListItem, 0)
	for _, e := range opts.Catalog.Certifications() {
		certItems = append(certItems, components.ListItem{ID: e.Code, Title: e.Label})
	}

	m := registrationModel{
		ctx:        ctx,
		wizard:     opts.Wizard,
		verifier:   opts.Verifier,
		catalog:    opts.Catalog,
		opts:       opts,
		styles:     styles.WithWidth(width),
		keys:       ui.DefaultKeyMap(),
		width:      width,
		height:     ui.DefaultHeight,
		phoneInput: phone,
		codeInput:  code,
		nameInput:  name,
		introInput: intro,
		areaList:   components.NewList(areaItems),
		areaSearch: components.NewSearch(),
		certList:   components.NewList(certItems),
		stepper:    components.NewStepper(opts.Wizard.Progress()),
		spinner:    components.NewSpinner().SetMessage("등록 중..."),
		confirm:    components.NewConfirm(msgDiscardPrompt).WithLabels("그만두기", "계속 작성"),
	}
	m.loadFields()
	m.resize(width)
	m.focusActive()
	return m
}

// loadFields copies wizard values into the widgets, so a wizard created
// with initial fields starts with filled inputs.
func (m *registrationModel) loadFields() {
	f := m.wizard.Fields()
	m.phoneInput.SetValue(registration.FormatPhone(f.Phone))
	m.nameInput.SetValue(f.Name)
	m.introInput.SetValue(f.Introduction)
	for _, code := range f.SelectedAreas.Sorted() {
		m.areaList = m.areaList.SetChecked(code, true)
	}
	for _, code := range f.SelectedCertifications.Sorted() {
		m.certList = m.certList.SetChecked(code, true)
	}
	if f.PhoneVerified {
		m.codeSent = true
	}
}

func (m *registrationModel) resize(width int) {
	m.width = width
	m.styles = m.styles.WithWidth(width)
	inner := max(20, width-8)
	m.phoneInput.Width = inner
	m.codeInput.Width = inner
	m.nameInput.Width = inner
	m.introInput.SetWidth(inner)
	m.areaList = m.areaList.WithWidth(inner).WithStyles(m.styles)
	m.certList = m.certList.WithWidth(inner).WithStyles(m.styles)
	m.areaSearch = m.areaSearch.WithWidth(inner)
	m.stepper = m.stepper.WithWidth(min(inner, ui.DefaultProgressBarWidth)).WithStyles(m.styles)
	m.confirm = m.confirm.WithWidth(inner)
}

func (m registrationModel) step() registration.StepID {
	return m.wizard.Steps()[m.wizard.StepIndex()].ID
}

// focusActive focuses the widget of the current step and blurs the others.
func (m *registrationModel) focusActive() tea.Cmd {
	m.phoneInput.Blur()
	m.codeInput.Blur()
	m.nameInput.Blur()
	m.introInput.Blur()
	m.areaSearch = m.areaSearch.Blur()

	switch m.step() {
	case registration.StepPhone:
		if m.focus == focusCode {
			return m.codeInput.Focus()
		}
		return m.phoneInput.Focus()
	case registration.StepName:
		return m.nameInput.Focus()
	case registration.StepIntroduction:
		return m.introInput.Focus()
	default:
		return nil
	}
}

func (m registrationModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m registrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		width := min(msg.Width, m.opts.Scale.Width())
		m.resize(width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ui.CodeSentMsg:
		return m.handleCodeSent(msg)

	case ui.CodeConfirmedMsg:
		return m.handleCodeConfirmed(msg)

	case ui.CooldownTickMsg:
		if msg.Seq != m.cooldownSeq || m.cooldown == 0 {
			return m, nil
		}
		m.cooldown--
		if m.cooldown > 0 {
			return m, ui.CooldownTick(m.cooldownSeq)
		}
		return m, nil

	case components.ListToggledMsg:
		return m.handleToggle(msg)

	case components.SearchChangeMsg:
		m.areaList = m.areaList.SetFilter(msg.Query)
		return m, nil

	case components.SearchDoneMsg:
		if msg.Cleared {
			m.areaList = m.areaList.SetFilter("")
		}
		return m, nil

	case components.ConfirmResultMsg:
		m.prompting = false
		if msg.Confirmed {
			m.wizard.Discard()
			m.cancelled = true
			return m, tea.Quit
		}
		cmd := m.focusActive()
		return m, cmd

	case ui.SubmitDoneMsg:
		return m.handleSubmitDone(msg)

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateActive(msg)
}

func (m registrationModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, tea.Quit
	}
	if m.prompting {
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Quit) {
		return m.promptDiscard()
	}
	if m.submitting {
		return m, nil
	}

	// The filter box owns enter and esc while it is focused.
	if m.step() == registration.StepServiceAreas && m.areaSearch.Focused() {
		var cmd tea.Cmd
		m.areaSearch, cmd = m.areaSearch.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		if m.wizard.GoBack() {
			cmd := m.refresh()
			return m, cmd
		}
		return m.promptDiscard()

	case key.Matches(msg, m.keys.Next):
		return m.handleEnter()
	}

	switch m.step() {
	case registration.StepPhone:
		switch {
		case key.Matches(msg, m.keys.SendCode):
			return m.sendCode()
		case key.Matches(msg, m.keys.Focus):
			if m.codeSent {
				if m.focus == focusPhone {
					m.focus = focusCode
				} else {
					m.focus = focusPhone
				}
				cmd := m.focusActive()
				return m, cmd
			}
			return m, nil
		}
	case registration.StepServiceAreas:
		if key.Matches(msg, m.keys.Filter) {
			var cmd tea.Cmd
			m.areaSearch, cmd = m.areaSearch.Focus()
			return m, cmd
		}
	}

	return m.updateActive(msg)
}

// updateActive forwards msg to the current step's widget and copies the
// resulting value into the wizard.
func (m registrationModel) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.step() {
	case registration.StepPhone:
		if m.focus == focusCode {
			m.codeInput, cmd = m.codeInput.Update(msg)
			return m, cmd
		}
		before := m.phoneInput.Value()
		m.phoneInput, cmd = m.phoneInput.Update(msg)
		if m.phoneInput.Value() != before {
			m.phoneChanged()
		}
	case registration.StepName:
		m.nameInput, cmd = m.nameInput.Update(msg)
		_ = m.wizard.UpdateField(registration.FieldDisplayName, m.nameInput.Value())
	case registration.StepIntroduction:
		m.introInput, cmd = m.introInput.Update(msg)
		_ = m.wizard.UpdateField(registration.FieldIntroduction, m.introInput.Value())
	case registration.StepServiceAreas:
		m.areaList, cmd = m.areaList.Update(msg)
	case registration.StepCertifications:
		m.certList, cmd = m.certList.Update(msg)
	}
	return m, cmd
}

// phoneChanged reformats the number as typed. Editing a verified number
// revokes the verification.
func (m *registrationModel) phoneChanged() {
	digits := registration.NormalizePhone(m.phoneInput.Value())
	m.phoneInput.SetValue(registration.FormatPhone(digits))
	m.phoneInput.CursorEnd()

	if m.wizard.Fields().Phone == digits {
		return
	}
	_ = m.wizard.UpdateField(registration.FieldPhone, digits)
	if m.wizard.Fields().PhoneVerified {
		_ = m.wizard.UpdateField(registration.FieldPhoneVerified, false)
	}
	m.codeSent = false
	m.codeInput.SetValue("")
	m.focus = focusPhone
}

func (m registrationModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.step() {
	case registration.StepPhone:
		if m.wizard.Fields().PhoneVerified {
			return m.next()
		}
		if m.focus == focusCode {
			return m.confirmCode()
		}
		if m.codeSent && m.cooldown > 0 {
			m.focus = focusCode
			cmd := m.focusActive()
			return m, cmd
		}
		return m.sendCode()

	case registration.StepCertifications:
		return m.submit()

	default:
		return m.next()
	}
}

func (m registrationModel) next() (tea.Model, tea.Cmd) {
	if !m.wizard.GoNext().OK() {
		return m, nil
	}
	cmd := m.refresh()
	return m, cmd
}

// refresh re-reads progress after a step change and moves focus.
func (m *registrationModel) refresh() tea.Cmd {
	m.stepper = m.stepper.SetItems(m.wizard.Progress())
	return m.focusActive()
}

func (m registrationModel) sendCode() (tea.Model, tea.Cmd) {
	if m.sending || m.cooldown > 0 {
		return m, nil
	}
	phone := registration.NormalizePhone(m.phoneInput.Value())
	if !registration.ValidPhone(phone) {
		m.wizard.ReportError(msgInvalidPhone)
		return m, nil
	}

	m.wizard.ClearError()
	m.sending = true
	ctx, verifier := m.ctx, m.verifier
	return m, func() tea.Msg {
		return ui.CodeSentMsg{Phone: phone, Err: verifier.SendCode(ctx, phone)}
	}
}

func (m registrationModel) handleCodeSent(msg ui.CodeSentMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	if msg.Err != nil {
		m.wizard.ReportError(registration.FailureMessageOr(msg.Err, msgSendFailed))
		return m, nil
	}
	if msg.Phone != m.wizard.Fields().Phone {
		return m, nil
	}

	m.codeSent = true
	m.codeInput.SetValue("")
	m.focus = focusCode
	m.cooldown = int(ui.ResendCooldown.Seconds())
	m.cooldownSeq++
	cmd := m.focusActive()
	return m, tea.Batch(cmd, ui.CooldownTick(m.cooldownSeq))
}

func (m registrationModel) confirmCode() (tea.Model, tea.Cmd) {
	code := strings.TrimSpace(m.codeInput.Value())
	if code == "" {
		m.wizard.ReportError(msgCodeRequired)
		return m, nil
	}
	if m.checking {
		return m, nil
	}

	m.wizard.ClearError()
	m.checking = true
	ctx, verifier := m.ctx, m.verifier
	phone := m.wizard.Fields().Phone
	return m, func() tea.Msg {
		ok, err := verifier.ConfirmCode(ctx, phone, code)
		return ui.CodeConfirmedMsg{Phone: phone, Verified: ok, Err: err}
	}
}

func (m registrationModel) handleCodeConfirmed(msg ui.CodeConfirmedMsg) (tea.Model, tea.Cmd) {
	m.checking = false
	if msg.Phone != m.wizard.Fields().Phone {
		return m, nil
	}

	switch {
	case msg.Err != nil:
		m.wizard.ReportError(registration.FailureMessageOr(msg.Err, msgConfirmFailed))
	case !msg.Verified:
		m.wizard.ReportError(msgCodeMismatch)
	default:
		_ = m.wizard.UpdateField(registration.FieldPhoneVerified, true)
		m.wizard.ClearError()
		m.cooldown = 0
		m.cooldownSeq++
		m.focus = focusPhone
	}
	return m, nil
}

func (m registrationModel) handleToggle(msg components.ListToggledMsg) (tea.Model, tea.Cmd) {
	switch m.step() {
	case registration.StepServiceAreas:
		m.areaList = m.areaList.SetChecked(msg.Item.ID, m.wizard.ToggleArea(msg.Item.ID))
	case registration.StepCertifications:
		m.certList = m.certList.SetChecked(msg.Item.ID, m.wizard.ToggleCertification(msg.Item.ID))
	}
	return m, nil
}

func (m registrationModel) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	ctx, w := m.ctx, m.wizard
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return ui.SubmitDoneMsg{Outcome: w.Submit(ctx)} },
	)
}

func (m registrationModel) handleSubmitDone(msg ui.SubmitDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	m.outcome = msg.Outcome
	if msg.Outcome == registration.SubmitSucceeded {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m registrationModel) promptDiscard() (tea.Model, tea.Cmd) {
	if !m.dirty() {
		m.wizard.Discard()
		m.cancelled = true
		return m, tea.Quit
	}
	m.prompting = true
	m.confirm = components.NewConfirm(msgDiscardPrompt).
		WithLabels("그만두기", "계속 작성").
		WithWidth(max(20, m.width-8))
	return m, nil
}

// dirty reports whether the user entered anything worth confirming before
// throwing away.
func (m registrationModel) dirty() bool {
	f := m.wizard.Fields()
	return f.Phone != "" || f.Name != "" || f.Introduction != "" ||
		f.SelectedAreas.Len() > 0 || f.SelectedCertifications.Len() > 0
}

func (m registrationModel) View() string {
	if m.done {
		return m.viewComplete()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("동반자 등록"))
	b.WriteString("\n")
	b.WriteString(m.stepper.View())
	b.WriteString("\n\n")

	if m.prompting {
		b.WriteString(m.panel("").WithContent(m.confirm.View()).View())
		return m.styles.App.Render(b.String())
	}

	var body string
	switch m.step() {
	case registration.StepPhone:
		body = m.viewPhone()
	case registration.StepName:
		body = m.viewName()
	case registration.StepIntroduction:
		body = m.viewIntroduction()
	case registration.StepServiceAreas:
		body = m.viewAreas()
	case registration.StepCertifications:
		body = m.viewCertifications()
	}
	step := m.wizard.Steps()[m.wizard.StepIndex()]
	title := fmt.Sprintf("%d/%d %s", m.wizard.StepIndex()+1, m.wizard.StepCount(), step.Label)
	if step.Optional {
		title += " (선택)"
	}
	b.WriteString(m.panel(title).WithContent(body).View())
	b.WriteString("\n")

	if msg := m.wizard.ErrorMessage(); msg != "" {
		b.WriteString(m.styles.Error.Render("! " + msg))
		b.WriteString("\n")
	}
	b.WriteString(m.viewHelp())

	return m.styles.App.Render(b.String())
}

func (m registrationModel) panel(title string) components.Panel {
	return components.NewPanel(title).WithWidth(m.width).WithStyles(m.styles)
}

func (m registrationModel) viewPhone() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("휴대폰 번호를 인증해주세요"))
	b.WriteString("\n\n")
	b.WriteString(m.phoneInput.View())

	verified := m.wizard.Fields().PhoneVerified
	if m.codeSent && !verified {
		b.WriteString("\n")
		b.WriteString(m.codeInput.View())
	}
	b.WriteString("\n\n")

	switch {
	case verified:
		b.WriteString(m.styles.Success.Render("✓ 인증이 완료되었습니다"))
	case m.sending:
		b.WriteString(m.styles.Help.Render("인증번호를 보내는 중..."))
	case m.checking:
		b.WriteString(m.styles.Help.Render("인증번호를 확인하는 중..."))
	case m.cooldown > 0:
		b.WriteString(m.styles.Help.Render(fmt.Sprintf("인증번호를 보냈습니다. %d초 후 재전송할 수 있습니다.", m.cooldown)))
	case m.codeSent:
		b.WriteString(m.styles.Help.Render("인증번호를 받지 못했다면 ctrl+s로 다시 보내주세요."))
	}
	return b.String()
}

func (m registrationModel) viewName() string {
	n := registration.CharLength(m.nameInput.Value())
	return m.styles.Subtitle.Render("어르신과 보호자에게 보여질 이름입니다") + "\n\n" +
		m.nameInput.View() + "\n" +
		m.styles.Help.Render(fmt.Sprintf("%d/%d자", n, registration.NameMaxLength))
}

func (m registrationModel) viewIntroduction() string {
	n := registration.CharLength(m.introInput.Value())
	counter := fmt.Sprintf("%d/%d자", n, registration.IntroductionMaxLength)
	if n < registration.IntroductionMinLength {
		counter += fmt.Sprintf(" (최소 %d자)", registration.IntroductionMinLength)
	}
	return m.styles.Subtitle.Render("자기소개") + "\n\n" +
		m.introInput.View() + "\n" +
		m.styles.Help.Render(counter)
}

func (m registrationModel) viewAreas() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("활동 가능한 지역을 모두 선택해주세요"))
	b.WriteString("\n\n")
	if m.areaSearch.Focused() || m.areaSearch.Value() != "" {
		b.WriteString(m.areaSearch.View())
		b.WriteString("\n")
	}
	b.WriteString(m.areaList.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render(fmt.Sprintf("%d개 선택됨", m.wizard.Fields().SelectedAreas.Len())))
	return b.String()
}

func (m registrationModel) viewCertifications() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("보유한 자격증을 선택해주세요 (선택 사항)"))
	b.WriteString("\n\n")
	b.WriteString(m.certList.View())
	b.WriteString("\n\n")
	if m.submitting {
		b.WriteString(m.spinner.View())
	} else {
		b.WriteString(m.styles.Help.Render(fmt.Sprintf("%d개 선택됨", m.wizard.Fields().SelectedCertifications.Len())))
	}
	return b.String()
}

func (m registrationModel) viewHelp() string {
	k := m.keys
	back := k.Back
	if m.wizard.StepIndex() == 0 {
		back.SetHelp("esc", "나가기")
	}

	switch m.step() {
	case registration.StepPhone:
		return k.HelpLine(m.styles, k.Next, k.SendCode, k.Focus, back)
	case registration.StepIntroduction:
		newline := key.NewBinding(key.WithHelp("alt+enter", "줄바꿈"))
		return k.HelpLine(m.styles, k.Next, newline, back)
	case registration.StepServiceAreas:
		if m.areaSearch.Focused() {
			return k.HelpLine(m.styles, k.Select, k.Cancel)
		}
		return k.HelpLine(m.styles, k.Toggle, k.Filter, k.Next, back)
	case registration.StepCertifications:
		submit := key.NewBinding(key.WithHelp("enter", "등록하기"))
		return k.HelpLine(m.styles, k.Toggle, submit, back)
	default:
		return k.HelpLine(m.styles, k.Next, back)
	}
}

func (m registrationModel) viewComplete() string {
	f := m.wizard.Fields()

	var b strings.Builder
	b.WriteString(m.styles.Success.Render("✓ 동반자 등록이 완료되었습니다"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "이름       %s\n", strings.TrimSpace(f.Name))
	fmt.Fprintf(&b, "휴대폰     %s\n", registration.FormatPhone(f.Phone))
	fmt.Fprintf(&b, "활동 지역  %s\n", strings.Join(m.catalog.Labels(catalog.KindArea, f.SelectedAreas.Sorted()), ", "))
	certs := "없음"
	if f.SelectedCertifications.Len() > 0 {
		certs = strings.Join(m.catalog.Labels(catalog.KindCertification, f.SelectedCertifications.Sorted()), ", ")
	}
	fmt.Fprintf(&b, "자격증     %s", certs)

	return m.styles.App.Render(b.String())
}
