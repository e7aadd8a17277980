// Package credentials reads the signed-in session from an INI file with one
// section per profile:
//
//	[default]
//	user_id      = u-123
//	display_name = 김하나
//	access_token = eyJ...
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/companion/internal/config"
	"github.com/felixgeelhaar/companion/internal/ports"
)

// Keys within a profile section.
const (
	KeyUserID      = "user_id"
	KeyDisplayName = "display_name"
	KeyAccessToken = "access_token"
)

// Store is an INI-backed ports.SessionStore.
type Store struct {
	path    string
	profile string
}

// NewStore reads sessions for profile from path.
func NewStore(path, profile string) *Store {
	if profile == "" {
		profile = config.DefaultProfile
	}
	return &Store{path: path, profile: profile}
}

// Current returns the session of the configured profile. A missing file,
// section or token is reported as a not-logged-in UserError.
func (s *Store) Current() (ports.Session, error) {
	cfg, err := ini.Load(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ports.Session{}, config.NewNotLoggedInError(s.profile)
		}
		return ports.Session{}, &config.UserError{
			Code:       config.ErrCodeCredentials,
			Message:    "failed to read credentials",
			Context:    s.path,
			Suggestion: "Fix or delete the file and sign in again.",
			Underlying: err,
		}
	}

	section, err := cfg.GetSection(s.profile)
	if err != nil {
		return ports.Session{}, config.NewNotLoggedInError(s.profile)
	}

	session := ports.Session{
		UserID:      strings.TrimSpace(section.Key(KeyUserID).String()),
		DisplayName: strings.TrimSpace(section.Key(KeyDisplayName).String()),
		AccessToken: strings.TrimSpace(section.Key(KeyAccessToken).String()),
	}
	if !session.Authenticated() {
		return ports.Session{}, config.NewNotLoggedInError(s.profile)
	}
	return session, nil
}

// Save writes session under the configured profile, keeping other profiles.
// The file is created with owner-only permissions.
func (s *Store) Save(session ports.Session) error {
	cfg, err := ini.LooseLoad(s.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	section := cfg.Section(s.profile)
	section.Key(KeyUserID).SetValue(session.UserID)
	section.Key(KeyDisplayName).SetValue(session.DisplayName)
	section.Key(KeyAccessToken).SetValue(session.AccessToken)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := cfg.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Profiles lists the profile sections present in the file.
func (s *Store) Profiles() ([]string, error) {
	cfg, err := ini.LooseLoad(s.path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, name := range cfg.SectionStrings() {
		if name != ini.DefaultSection {
			names = append(names, name)
		}
	}
	return names, nil
}

var _ ports.SessionStore = (*Store)(nil)
