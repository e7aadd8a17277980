package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	areas    []Entry
	certs    []Entry
	areasErr error
	certsErr error
}

func (s *stubSource) ServiceAreas(context.Context) ([]Entry, error) {
	return s.areas, s.areasErr
}

func (s *stubSource) Certifications(context.Context) ([]Entry, error) {
	return s.certs, s.certsErr
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cat, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, cat.Areas())
	assert.NotEmpty(t, cat.Certifications())

	label, ok := cat.Label(KindArea, "seoul-mapo")
	assert.True(t, ok)
	assert.Equal(t, "마포구", label)

	label, ok = cat.Label(KindCertification, "care-worker")
	assert.True(t, ok)
	assert.Equal(t, "요양보호사", label)

	assert.Equal(t, "서울", cat.Regions()[0])
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = New([]Entry{{Code: " "}}, nil)
	assert.ErrorIs(t, err, ErrEmptyCode)

	_, err = New([]Entry{{Code: "a"}, {Code: "a"}}, nil)
	assert.ErrorIs(t, err, ErrDuplicateCode)

	_, err = New([]Entry{{Code: "a"}}, []Entry{{Code: "x"}, {Code: "x "}})
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestNew_LabelFallsBackToCode(t *testing.T) {
	t.Parallel()

	cat, err := New([]Entry{{Code: "seoul-jung"}}, nil)
	require.NoError(t, err)

	label, ok := cat.Label(KindArea, "seoul-jung")
	assert.True(t, ok)
	assert.Equal(t, "seoul-jung", label)
}

func TestParse_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("areas: [\n"))
	assert.Error(t, err)
}

func TestCatalog_Labels(t *testing.T) {
	t.Parallel()

	cat, err := Default()
	require.NoError(t, err)

	got := cat.Labels(KindArea, []string{"seoul-gangnam", "unknown-code"})
	assert.Equal(t, []string{"강남구", "unknown-code"}, got)
}

func TestCatalog_AreasPreferring(t *testing.T) {
	t.Parallel()

	cat, err := New([]Entry{
		{Code: "a", Region: "서울"},
		{Code: "b", Region: "부산"},
		{Code: "c", Region: "서울"},
		{Code: "d", Region: "부산"},
	}, nil)
	require.NoError(t, err)

	codes := func(entries []Entry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.Code
		}
		return out
	}

	assert.Equal(t, []string{"b", "d", "a", "c"}, codes(cat.AreasPreferring("부산")))
	assert.Equal(t, []string{"a", "b", "c", "d"}, codes(cat.AreasPreferring("")))
	assert.Equal(t, []string{"a", "b", "c", "d"}, codes(cat.Areas()))
}

func TestCatalog_AreasIsCopy(t *testing.T) {
	t.Parallel()

	cat, err := Default()
	require.NoError(t, err)

	areas := cat.Areas()
	areas[0].Label = "changed"

	assert.NotEqual(t, "changed", cat.Areas()[0].Label)
}

func TestFetch(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		areas: []Entry{{Code: "seoul-mapo", Label: "마포구", Region: "서울"}},
		certs: []Entry{{Code: "care-worker", Label: "요양보호사"}},
	}

	cat, err := Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, cat.Areas(), 1)
	assert.Len(t, cat.Entries(KindCertification), 1)
}

func TestFetch_Error(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		areas:    []Entry{{Code: "a"}},
		certsErr: errors.New("unavailable"),
	}

	_, err := Fetch(context.Background(), src)
	assert.ErrorContains(t, err, "certifications")
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	src := &stubSource{areasErr: errors.New("timeout")}

	cat, err := Load(context.Background(), src)

	require.NotNil(t, cat)
	assert.Error(t, err)
	_, ok := cat.Label(KindArea, "seoul-gangnam")
	assert.True(t, ok)
}

func TestLoad_NilSource(t *testing.T) {
	t.Parallel()

	cat, err := Load(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Areas())
}
