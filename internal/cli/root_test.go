package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliFixture = `
project: cli-study
researcher: Tester

sample:
  respondents: 60
  seed: 5

constructs:
  - name: PE
    items: 3
  - name: BI
    items: 2

structural:
  paths:
    - source: PE
      target: BI
      beta: 0.5
`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T) (cfgPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "semgen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cliFixture), 0o644))
	return cfgPath, dir
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "semgen")
	assert.Contains(t, out, "go version")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })

	out, _, err := runCLI(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created semgen.yaml")

	// A second init refuses to clobber without --force.
	_, _, err = runCLI(t, "init")
	require.Error(t, err)

	_, _, err = runCLI(t, "init", "--force")
	require.NoError(t, err)

	// The scaffold must itself be a loadable, valid model.
	_, _, err = runCLI(t, "generate", "--no-state",
		"--out", t.TempDir(), "--formats", "csv", "--respondents", "50")
	require.NoError(t, err)
}

func TestGenerateWritesRequestedFormats(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	outDir := filepath.Join(dir, "out")

	stdout, _, err := runCLI(t, "generate",
		"--config", cfgPath,
		"--state", filepath.Join(dir, "state.db"),
		"--out", outDir,
		"--formats", "csv,codebook,json,codebook-html,xlsx")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cli-study")

	for _, name := range []string{
		"cli_study_data.csv",
		"cli_study_codebook.csv",
		"cli_study_metadata.json",
		"cli_study_codebook.html",
		"cli_study_data.xlsx",
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, "expected export %s", name)
	}
}

func TestGenerateUnavailableFormatSkipsWithWarning(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	outDir := filepath.Join(dir, "out")

	_, stderr, err := runCLI(t, "generate",
		"--config", cfgPath, "--no-state",
		"--out", outDir, "--formats", "csv,sav")
	require.NoError(t, err, "an unavailable format must not fail the run")
	assert.Contains(t, stderr, "sav")

	_, statErr := os.Stat(filepath.Join(outDir, "cli_study_data.csv"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(outDir, "cli_study_data.sav"))
	assert.Error(t, statErr, "no partial sav file should remain")
}

func TestGenerateSeedOverrideIsDeterministic(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	outA := filepath.Join(dir, "a")
	outB := filepath.Join(dir, "b")

	_, _, err := runCLI(t, "generate", "--config", cfgPath, "--no-state",
		"--out", outA, "--formats", "csv", "--seed", "99")
	require.NoError(t, err)
	_, _, err = runCLI(t, "generate", "--config", cfgPath, "--no-state",
		"--out", outB, "--formats", "csv", "--seed", "99")
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(outA, "cli_study_data.csv"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(outB, "cli_study_data.csv"))
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed must give byte-identical CSV output")
}

func TestGenerateRecordsRunHistory(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	statePath := filepath.Join(dir, "history", "state.db")

	_, _, err := runCLI(t, "generate", "--config", cfgPath,
		"--state", statePath, "--out", filepath.Join(dir, "out"), "--formats", "csv")
	require.NoError(t, err)

	out, _, err := runCLI(t, "runs", "--state", statePath)
	require.NoError(t, err)
	assert.Contains(t, out, "cli-study")
	assert.Contains(t, out, "completed")
}

func TestGenerateDiagnoseFlag(t *testing.T) {
	cfgPath, dir := writeConfig(t)

	out, _, err := runCLI(t, "generate", "--config", cfgPath, "--no-state",
		"--out", filepath.Join(dir, "out"), "--formats", "csv", "--diagnose")
	require.NoError(t, err)
	assert.Contains(t, out, "Reliability")
	assert.Contains(t, out, "HTMT")
	assert.Contains(t, out, "PE")
}

func TestDiagnoseCommandOnGeneratedCSV(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	outDir := filepath.Join(dir, "out")

	_, _, err := runCLI(t, "generate", "--config", cfgPath, "--no-state",
		"--out", outDir, "--formats", "csv")
	require.NoError(t, err)

	csvPath := filepath.Join(outDir, "cli_study_data.csv")
	out, _, err := runCLI(t, "diagnose", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Reliability")
	assert.Contains(t, out, "PE")
	assert.Contains(t, out, "BI")
}

func TestDiagnoseWithExplicitMap(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	outDir := filepath.Join(dir, "out")

	_, _, err := runCLI(t, "generate", "--config", cfgPath, "--no-state",
		"--out", outDir, "--formats", "csv")
	require.NoError(t, err)

	mapPath := filepath.Join(dir, "map.yaml")
	require.NoError(t, os.WriteFile(mapPath, []byte(`
- construct: Perf
  columns: [PE_01, PE_02, PE_03]
- construct: Intent
  columns: [BI_01, BI_02]
`), 0o644))

	out, _, err := runCLI(t, "diagnose", filepath.Join(outDir, "cli_study_data.csv"), "--map", mapPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Perf")
	assert.Contains(t, out, "Intent")
}

func TestBiasCommand(t *testing.T) {
	cfgPath, dir := writeConfig(t)
	outDir := filepath.Join(dir, "out")

	_, _, err := runCLI(t, "generate", "--config", cfgPath, "--no-state",
		"--out", outDir, "--formats", "csv")
	require.NoError(t, err)

	in := filepath.Join(outDir, "cli_study_data.csv")
	biased := filepath.Join(dir, "biased.csv")

	_, _, err = runCLI(t, "bias", in, biased, "--missing-rate", "0.1", "--seed", "4")
	require.NoError(t, err)

	raw, err := os.ReadFile(biased)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "PE_01")

	// No parameters set is an error, not a silent copy.
	_, _, err = runCLI(t, "bias", in, biased)
	require.Error(t, err)
}

func TestRunsEmptyHistory(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runCLI(t, "runs", "--state", filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet")
}

func TestGenerateMissingConfigFails(t *testing.T) {
	_, _, err := runCLI(t, "generate", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "--no-state")
	require.Error(t, err)
}
