package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/companion/internal/config"
	"github.com/felixgeelhaar/companion/internal/ports"
	"github.com/felixgeelhaar/companion/internal/testutil"
)

var notLoggedIn = &config.UserError{Code: config.ErrCodeNotLoggedIn}

func TestStore_Current(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "credentials")
	require.NoError(t, os.WriteFile(path, []byte(`
[default]
user_id      = u-1
display_name = 김하나
access_token = tok-default

[work]
user_id      = u-2
access_token = tok-work
`), 0o600))

	session, err := NewStore(path, "").Current()
	require.NoError(t, err)
	assert.Equal(t, ports.Session{UserID: "u-1", DisplayName: "김하나", AccessToken: "tok-default"}, session)

	session, err = NewStore(path, "work").Current()
	require.NoError(t, err)
	assert.Equal(t, "tok-work", session.AccessToken)

	_, err = NewStore(path, "missing").Current()
	assert.ErrorIs(t, err, notLoggedIn)
}

func TestStore_CurrentMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewStore(filepath.Join(t.TempDir(), "none"), "default").Current()
	assert.ErrorIs(t, err, notLoggedIn)
}

func TestStore_CurrentWithoutToken(t *testing.T) {
	t.Parallel()

	path := testutil.WriteTempFile(t, t.TempDir(), "credentials", "[default]\nuser_id = u-1\n")

	_, err := NewStore(path, "default").Current()
	assert.ErrorIs(t, err, notLoggedIn)
}

func TestStore_SaveKeepsOtherProfiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "credentials")

	require.NoError(t, NewStore(path, "default").Save(ports.Session{UserID: "u-1", AccessToken: "a"}))
	require.NoError(t, NewStore(path, "work").Save(ports.Session{UserID: "u-2", AccessToken: "b"}))

	first, err := NewStore(path, "default").Current()
	require.NoError(t, err)
	assert.Equal(t, "a", first.AccessToken)

	second, err := NewStore(path, "work").Current()
	require.NoError(t, err)
	assert.Equal(t, "u-2", second.UserID)

	profiles, err := NewStore(path, "default").Profiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"default", "work"}, profiles)

	testutil.AssertFileMode(t, path, 0o600)
}

func TestStore_CurrentSingleProfile(t *testing.T) {
	t.Parallel()

	path := testutil.WriteCredentials(t, t.TempDir(), "default", "u-9", "tok-9")

	session, err := NewStore(path, "").Current()
	require.NoError(t, err)
	assert.True(t, session.Authenticated())
	assert.Equal(t, "u-9", session.UserID)
	assert.Empty(t, session.DisplayName)
}
