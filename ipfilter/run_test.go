package ipfilter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"project/ip-filter/address"
	"project/ip-filter/filter"
	"project/ip-filter/formatter"
)

const fixture = "1.1.1.1\tx\n" +
	"46.70.1.1\ty\n" +
	"1.46.2.3\tz\n" +
	"10.0.0.1\t\n" +
	"46.70.46.1\t\n" +
	"bad.line\t\n" +
	"46.70.1.1\tdup\n" +
	"1.2.3.4\n"

var fixtureReports = strings.Join([]string{
	// accept-all
	"46.70.46.1", "46.70.1.1", "46.70.1.1", "10.0.0.1", "1.46.2.3", "1.1.1.1",
	// last-octet-is-1
	"46.70.46.1", "46.70.1.1", "46.70.1.1", "10.0.0.1", "1.1.1.1",
	// first-two-octets-46.70
	"46.70.46.1", "46.70.1.1", "46.70.1.1",
	// contains-octet-46
	"46.70.46.1", "46.70.1.1", "46.70.1.1", "1.46.2.3",
}, "\n") + "\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunStdinToStdout(t *testing.T) {
	var stdout bytes.Buffer

	summary, err := Run(Options{Mode: ModeLegacy}, strings.NewReader(fixture), &stdout)
	require.NoError(t, err)

	if diff := cmp.Diff(fixtureReports, stdout.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 8, summary.Lines)
	assert.Equal(t, 6, summary.Accepted)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 18, summary.Emitted)
	assert.Equal(t, []int{6, 5, 3, 4}, summary.Matches)
	assert.Equal(t, xxhash.Sum64String(fixtureReports), summary.Digest)
	assert.Equal(t, "1.1.1.1", summary.Span.From().String())
	assert.Equal(t, "46.70.46.1", summary.Span.To().String())
}

func TestRunModesProduceIdenticalOutput(t *testing.T) {
	inputs := map[string]string{
		"fixture":    fixture,
		"duplicates": "9.9.9.9\t\n1.1.1.1\t\n9.9.9.9\t\n46.46.46.46\t\n1.1.1.1\t\n",
		"empty":      "",
		"bare":       "46.70.0.1\n46.0.0.1\n255.255.255\n",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			for _, policy := range []address.Policy{{}, {WholeLine: true}, {WholeLine: true, PermissiveThreeOctets: true}} {
				var legacy, rng bytes.Buffer
				ls, err := Run(Options{Mode: ModeLegacy, Policy: policy}, strings.NewReader(input), &legacy)
				require.NoError(t, err)
				rs, err := Run(Options{Mode: ModeRange, Policy: policy}, strings.NewReader(input), &rng)
				require.NoError(t, err)

				assert.Equal(t, legacy.String(), rng.String())
				assert.Equal(t, ls.Digest, rs.Digest)
			}
		})
	}
}

func TestRunDuplicatesInEveryMatchingReport(t *testing.T) {
	var stdout bytes.Buffer
	_, err := Run(Options{Mode: ModeRange}, strings.NewReader("46.70.0.1\t\n2.2.2.2\t\n46.70.0.1\t\n"), &stdout)
	require.NoError(t, err)

	want := "46.70.0.1\n46.70.0.1\n2.2.2.2\n" +
		"46.70.0.1\n46.70.0.1\n" +
		"46.70.0.1\n46.70.0.1\n" +
		"46.70.0.1\n46.70.0.1\n"
	assert.Equal(t, want, stdout.String())
}

func TestRunFilesAndWholeLine(t *testing.T) {
	src := writeFile(t, "ips.tsv", fixture)
	dst := filepath.Join(t.TempDir(), "out.txt")
	var stdout bytes.Buffer

	summary, err := Run(Options{
		Source:      src,
		Destination: dst,
		Mode:        ModeRange,
		Policy:      address.Policy{WholeLine: true},
	}, strings.NewReader("should not be read\t\n"), &stdout)
	require.NoError(t, err)

	assert.Empty(t, stdout.String())
	out, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(out), "1.2.3.4\n")
	assert.Equal(t, 7, summary.Accepted)
}

func TestRunSourceUnavailableFallsBackToStdin(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	var stdout bytes.Buffer

	_, err := Run(Options{
		Source: filepath.Join(t.TempDir(), "missing.tsv"),
		Mode:   ModeLegacy,
		Logger: zap.New(core),
	}, strings.NewReader(fixture), &stdout)
	require.NoError(t, err)

	assert.Equal(t, fixtureReports, stdout.String())
	assert.Equal(t, 1, logs.FilterMessage("input file unavailable, reading standard input").Len())
}

func TestRunDestinationUnavailableFallsBackToStdout(t *testing.T) {
	var stdout bytes.Buffer
	dst := filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt")

	_, err := Run(Options{Destination: dst, Mode: ModeLegacy}, strings.NewReader(fixture), &stdout)
	require.NoError(t, err)
	assert.Equal(t, fixtureReports, stdout.String())
}

func TestRunUnknownMode(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.txt")
	var stdout bytes.Buffer

	_, err := Run(Options{Destination: dst, Mode: Mode(42)}, strings.NewReader(fixture), &stdout)
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Empty(t, stdout.String())
	assert.NoFileExists(t, dst)
}

func TestRunCustomPredicatesAndArpa(t *testing.T) {
	var stdout bytes.Buffer
	_, err := Run(Options{
		Mode:       ModeLegacy,
		Format:     formatter.Arpa,
		Predicates: []filter.Predicate{filter.FirstTwoOctetsMatch(46, 70)},
	}, strings.NewReader(fixture), &stdout)
	require.NoError(t, err)

	assert.Equal(t, "1.46.70.46.in-addr.arpa.\n1.1.70.46.in-addr.arpa.\n1.1.70.46.in-addr.arpa.\n", stdout.String())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeLegacy},
		{"legacy", ModeLegacy},
		{"17", ModeLegacy},
		{"Range", ModeRange},
		{"23", ModeRange},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMode("20")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, "unknown", Mode(0).String())
}

func TestRunOversizedTrailingField(t *testing.T) {
	input := "1.1.1.1\t" + strings.Repeat("x", 17<<20) + "\n2.2.2.1\t\n"
	var stdout bytes.Buffer

	summary, err := Run(Options{Mode: ModeLegacy}, strings.NewReader(input), &stdout)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, "2.2.2.1\n1.1.1.1\n2.2.2.1\n1.1.1.1\n", stdout.String())
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("device unplugged") }

func TestRunReadErrorKeepsDestination(t *testing.T) {
	dst := writeFile(t, "out.txt", "previous report\n")

	_, err := Run(Options{Destination: dst, Mode: ModeRange}, brokenReader{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device unplugged")

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "previous report\n", string(got))
}
