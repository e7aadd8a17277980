package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/companion/internal/config"
	"github.com/felixgeelhaar/companion/internal/domain/catalog"
	"github.com/felixgeelhaar/companion/internal/domain/preferences"
	"github.com/felixgeelhaar/companion/internal/domain/registration"
	"github.com/felixgeelhaar/companion/internal/ports"
	"github.com/felixgeelhaar/companion/internal/tui"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register as a companion",
	Long: `Open the companion registration wizard.

You must be signed in: the access token of the selected profile is read
from ~/.companion/credentials.

With --from-file the wizard runs without a terminal UI. The file holds
the answers and the SMS code sent with 'companion phone send':

  phone: 010-1234-5678
  code: "123456"
  name: 김하나
  introduction: 어르신을 가족처럼 모시겠습니다.
  areas: [seoul-mapo, seoul-jongno]
  certifications: [care-worker]

Examples:
  companion register
  companion register --from-file answers.yaml`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var registerFromFile string

func init() {
	registerCmd.Flags().StringVar(&registerFromFile, "from-file", "", "register non-interactively from a YAML answers file")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	session, err := currentSession(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if registerFromFile != "" {
		a, err := readAnswers(registerFromFile)
		if err != nil {
			return err
		}
		logger := newConsoleLogger(cfg, cmd.ErrOrStderr())
		client := newAPIClient(cfg, session, logger)
		cat, err := loadCatalog(ctx, cfg, client, logger)
		if err != nil {
			return err
		}
		return registerNonInteractive(ctx, out, a, registerDeps{
			Verifier:  client,
			Registrar: client,
			Catalog:   cat,
			Logger:    logger,
		})
	}

	logger, closeLog, err := newFileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	prefs, err := preferences.NewStore(cfg.PreferencesPath).Load()
	if err != nil {
		logger.Warn(ctx, "ignoring unreadable preferences", ports.Err(err))
		prefs = preferences.Default()
	}

	client := newAPIClient(cfg, session, logger)
	cat, err := loadCatalog(ctx, cfg, client, logger)
	if err != nil {
		return err
	}

	var target string
	nav := ports.NavigatorFunc(func(path string) { target = path })

	initial := registration.NewFields()
	initial.Name = session.DisplayName
	wizard, err := registration.NewWizard(client, nav,
		registration.WithInitialFields(initial),
		registration.WithLogger(logger.With(ports.F("user_id", session.UserID))),
	)
	if err != nil {
		return fmt.Errorf("failed to create wizard: %w", err)
	}

	result, err := tui.RunRegistration(ctx, tui.RegistrationOptions{
		Wizard:          wizard,
		Verifier:        client,
		Catalog:         cat,
		PreferredRegion: prefs.Region,
		Scale:           prefs.Scale,
	})
	if err != nil {
		return err
	}

	switch {
	case result.Completed():
		printSummary(out, cat, result.Fields, target)
	case result.Cancelled:
		_, _ = fmt.Fprintln(out, "등록을 취소했습니다.")
	}
	return nil
}

// loadCatalog refreshes the catalog from the backend when configured,
// falling back to the embedded one.
func loadCatalog(ctx context.Context, cfg *config.Config, src ports.CatalogSource, logger ports.Logger) (*catalog.Catalog, error) {
	if !cfg.API.RefreshCatalog {
		src = nil
	}
	cat, err := catalog.Load(ctx, src)
	if cat == nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err != nil {
		logger.Warn(ctx, "using embedded catalog", ports.Err(err))
	}
	return cat, nil
}

// kindCommand names the catalog subcommand listing kind.
func kindCommand(kind catalog.Kind) string {
	if kind == catalog.KindCertification {
		return "certifications"
	}
	return "areas"
}

// answers is the --from-file format.
type answers struct {
	Phone          string   `yaml:"phone"`
	Code           string   `yaml:"code"`
	Name           string   `yaml:"name"`
	Introduction   string   `yaml:"introduction"`
	Areas          []string `yaml:"areas"`
	Certifications []string `yaml:"certifications"`
}

func readAnswers(path string) (*answers, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &config.UserError{
				Code:       config.ErrCodeConfigNotFound,
				Message:    "answers file not found",
				Context:    path,
				Underlying: err,
			}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var a answers
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&a); err != nil {
		return nil, &config.UserError{
			Code:       config.ErrCodeConfigParse,
			Message:    "failed to parse answers file",
			Context:    path,
			Suggestion: "Use the keys phone, code, name, introduction, areas and certifications.",
			Underlying: err,
		}
	}
	return &a, nil
}

// registerDeps are the collaborators of a non-interactive registration.
type registerDeps struct {
	Verifier  ports.PhoneVerifier
	Registrar ports.Registrar
	Catalog   *catalog.Catalog
	Logger    ports.Logger
}

// registerNonInteractive confirms the phone code and drives the wizard
// through every step with the given answers.
func registerNonInteractive(ctx context.Context, w io.Writer, a *answers, deps registerDeps) error {
	if !registration.ValidPhone(a.Phone) {
		return validationError("phone", fmt.Sprintf("%q is not a mobile number", a.Phone), "Use a number such as 010-1234-5678.")
	}
	phone := registration.NormalizePhone(a.Phone)
	if err := checkCodes(deps.Catalog, catalog.KindArea, a.Areas); err != nil {
		return err
	}
	if err := checkCodes(deps.Catalog, catalog.KindCertification, a.Certifications); err != nil {
		return err
	}

	verified, err := deps.Verifier.ConfirmCode(ctx, phone, strings.TrimSpace(a.Code))
	if err != nil {
		return fmt.Errorf("failed to confirm phone: %w", err)
	}
	if !verified {
		return validationError("code", "인증번호가 일치하지 않습니다.", "Request a new code with 'companion phone send'.")
	}

	fields := registration.NewFields()
	fields.Phone = phone
	fields.PhoneVerified = true
	fields.Name = a.Name
	fields.Introduction = a.Introduction
	fields.SelectedAreas = registration.NewCodeSet(a.Areas...)
	fields.SelectedCertifications = registration.NewCodeSet(a.Certifications...)

	var target string
	nav := ports.NavigatorFunc(func(path string) { target = path })
	wizard, err := registration.NewWizard(deps.Registrar, nav,
		registration.WithInitialFields(fields),
		registration.WithLogger(deps.Logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create wizard: %w", err)
	}

	for wizard.StepIndex() < wizard.StepCount()-1 {
		if res := wizard.GoNext(); !res.OK() {
			step := wizard.Steps()[wizard.StepIndex()]
			return validationError(string(step.ID), res.Message(), "")
		}
	}

	switch outcome := wizard.Submit(ctx); outcome {
	case registration.SubmitSucceeded:
		printSummary(w, deps.Catalog, wizard.Fields(), target)
		return nil
	case registration.SubmitRejected, registration.SubmitFailed:
		return &config.UserError{
			Code:    config.ErrCodeValidationFailed,
			Message: wizard.ErrorMessage(),
		}
	default:
		return fmt.Errorf("registration %s", outcome)
	}
}

func checkCodes(cat *catalog.Catalog, kind catalog.Kind, codes []string) error {
	for _, code := range codes {
		if _, ok := cat.Label(kind, code); !ok {
			return validationError(string(kind), fmt.Sprintf("unknown code %q", code),
				fmt.Sprintf("Run 'companion catalog %s' to list valid codes.", kindCommand(kind)))
		}
	}
	return nil
}

func validationError(field, message, suggestion string) *config.UserError {
	return &config.UserError{
		Code:       config.ErrCodeValidationFailed,
		Message:    message,
		Context:    field,
		Suggestion: suggestion,
	}
}

// printSummary prints what was registered and where the app goes next.
func printSummary(w io.Writer, cat *catalog.Catalog, f registration.Fields, target string) {
	certs := "없음"
	if f.SelectedCertifications.Len() > 0 {
		certs = strings.Join(cat.Labels(catalog.KindCertification, f.SelectedCertifications.Sorted()), ", ")
	}

	_, _ = fmt.Fprintln(w, "✓ 동반자 등록이 완료되었습니다")
	_, _ = fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "  이름\t%s\n", strings.TrimSpace(f.Name))
	_, _ = fmt.Fprintf(tw, "  휴대폰\t%s\n", registration.FormatPhone(f.Phone))
	_, _ = fmt.Fprintf(tw, "  활동 지역\t%s\n", strings.Join(cat.Labels(catalog.KindArea, f.SelectedAreas.Sorted()), ", "))
	_, _ = fmt.Fprintf(tw, "  자격증\t%s\n", certs)
	_ = tw.Flush()
	if target != "" {
		_, _ = fmt.Fprintf(w, "\n→ %s\n", target)
	}
}
