package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/companion/internal/domain/registration"
	"github.com/felixgeelhaar/companion/internal/ports"
)

var phoneCmd = &cobra.Command{
	Use:   "phone",
	Short: "Phone verification",
}

var phoneSendCmd = &cobra.Command{
	Use:   "send <number>",
	Short: "Send an SMS verification code",
	Long: `Send a verification code to a mobile number.

Put the code you receive in the answers file of
'companion register --from-file'.

Examples:
  companion phone send 010-1234-5678`,
	Args: cobra.ExactArgs(1),
	RunE: runPhoneSend,
}

func init() {
	phoneCmd.AddCommand(phoneSendCmd)
	rootCmd.AddCommand(phoneCmd)
}

func runPhoneSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	session, err := currentSession(cfg)
	if err != nil {
		return err
	}
	client := newAPIClient(cfg, session, newConsoleLogger(cfg, cmd.ErrOrStderr()))
	return sendCode(cmd.Context(), cmd.OutOrStdout(), client, args[0])
}

func sendCode(ctx context.Context, w io.Writer, verifier ports.PhoneVerifier, number string) error {
	if !registration.ValidPhone(number) {
		return validationError("phone", fmt.Sprintf("%q is not a mobile number", number), "Use a number such as 010-1234-5678.")
	}
	phone := registration.NormalizePhone(number)
	if err := verifier.SendCode(ctx, phone); err != nil {
		return fmt.Errorf("failed to send code: %w", err)
	}
	_, _ = fmt.Fprintf(w, "인증번호를 %s(으)로 보냈습니다.\n", registration.FormatPhone(phone))
	return nil
}
