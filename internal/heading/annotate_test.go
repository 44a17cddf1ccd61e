package heading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	linkerrs "git.home.luguber.info/inful/rstlinker/internal/errors"
)

const versionPattern = `^(?P<version>\d+(?:\.\d+){1,2})$`

func newAnnotator(t *testing.T) *Annotator {
	t.Helper()
	a, err := New(versionPattern, "%Y-%m-%d", "v")
	require.NoError(t, err)
	return a
}

func dates(m map[string]string) map[string]time.Time {
	out := make(map[string]time.Time, len(m))
	for k, v := range m {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			panic(err)
		}
		out[k] = t
	}
	return out
}

func TestNew_InvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
		format  string
	}{
		{"bad pattern", `^(\d+$`, "%Y-%m-%d"},
		{"no capture group", `^\d+$`, "%Y-%m-%d"},
		{"bad date format", versionPattern, "%Q"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.pattern, tc.format, "")
			require.Error(t, err)
			assert.True(t, linkerrs.IsInvalidRule(err))
		})
	}
}

func TestAnnotate_KnownVersionGetsDate(t *testing.T) {
	a := newAnnotator(t)
	out := a.Annotate("1.2.3\n-----\n\nFixed stuff.\n", dates(map[string]string{"1.2.3": "2020-05-01"}))
	assert.Equal(t, "1.2.3 (2020-05-01)\n------------------\n\nFixed stuff.\n", out)
}

func TestAnnotate_UnknownVersionUnchanged(t *testing.T) {
	a := newAnnotator(t)
	in := "1.3.0\n-----\n\nUpcoming.\n"
	out := a.Annotate(in, dates(map[string]string{"1.2.3": "2020-05-01"}))
	assert.Equal(t, in, out)
}

func TestAnnotate_EmptyDateMapIsNoop(t *testing.T) {
	a := newAnnotator(t)
	in := "1.2.3\n-----\n"
	assert.Equal(t, in, a.Annotate(in, nil))
}

func TestAnnotate_OverwritesStaleAnnotation(t *testing.T) {
	a := newAnnotator(t)
	in := "1.2.3 (2019-01-01)\n------------------\n"
	out := a.Annotate(in, dates(map[string]string{"1.2.3": "2020-05-01"}))
	assert.Equal(t, "1.2.3 (2020-05-01)\n------------------\n", out)
}

func TestAnnotate_AlreadyCurrentAnnotationUntouched(t *testing.T) {
	a := newAnnotator(t)
	in := "1.2.3 (2020-05-01)\n------------------\n"
	assert.Equal(t, in, a.Annotate(in, dates(map[string]string{"1.2.3": "2020-05-01"})))
}

func TestAnnotate_PrefixNormalization(t *testing.T) {
	// Heading says "v1.0", tags were stored with the "v" prefix stripped.
	a, err := New(`^v?(?P<version>\d+(?:\.\d+){1,2})$`, "%Y-%m-%d", "v")
	require.NoError(t, err)
	out := a.Annotate("v1.0\n----\n", dates(map[string]string{"1.0": "2020-05-01"}))
	assert.Equal(t, "v1.0 (2020-05-01)\n-----------------\n", out)
}

func TestAnnotate_MultipleHeadings(t *testing.T) {
	a := newAnnotator(t)
	in := "2.0\n===\n\nStuff.\n\n1.0\n===\n\nOlder stuff.\n"
	out := a.Annotate(in, dates(map[string]string{"1.0": "2019-03-03", "2.0": "2020-05-01"}))
	assert.Equal(t, "2.0 (2020-05-01)\n================\n\nStuff.\n\n1.0 (2019-03-03)\n================\n\nOlder stuff.\n", out)
}

func TestAnnotate_NonHeadingLinesUntouched(t *testing.T) {
	a := newAnnotator(t)
	in := "Intro mentioning 1.0 inline.\n\n1.0\n---\nBody 1.0 text.\n"
	out := a.Annotate(in, dates(map[string]string{"1.0": "2020-05-01"}))
	assert.Equal(t, "Intro mentioning 1.0 inline.\n\n1.0 (2020-05-01)\n----------------\nBody 1.0 text.\n", out)
}

func TestAnnotate_ShortUnderlineLeftAlone(t *testing.T) {
	// An adornment line shorter than the heading never belonged to it.
	a := newAnnotator(t)
	out := a.Annotate("1.2.3\n--\n", dates(map[string]string{"1.2.3": "2020-05-01"}))
	assert.Equal(t, "1.2.3 (2020-05-01)\n--\n", out)
}

func TestAnnotate_ParenthesizedSuffixThatIsNotADateKept(t *testing.T) {
	a := newAnnotator(t)
	// "(beta)" does not parse as a date, so it is part of the heading and the
	// anchored pattern no longer matches the line.
	in := "1.2.3 (beta)\n------------\n"
	assert.Equal(t, in, a.Annotate(in, dates(map[string]string{"1.2.3": "2020-05-01"})))
}

func TestAnnotate_CRLFPreserved(t *testing.T) {
	a := newAnnotator(t)
	out := a.Annotate("1.0\r\n---\r\n", dates(map[string]string{"1.0": "2020-05-01"}))
	assert.Equal(t, "1.0 (2020-05-01)\r\n----------------\r\n", out)
}

func TestAnnotate_CustomDateFormat(t *testing.T) {
	a, err := New(versionPattern, "%d %b %Y", "")
	require.NoError(t, err)
	out := a.Annotate("1.0\n---\n", dates(map[string]string{"1.0": "2020-05-01"}))
	assert.Equal(t, "1.0 (01 May 2020)\n-----------------\n", out)
}
