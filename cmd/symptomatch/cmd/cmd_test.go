package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/symptomatch/backend/internal/evaluation"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestClassify_Text(t *testing.T) {
	out, err := run(t, "", "classify", "tooth", "pain", "and", "cavity")
	require.NoError(t, err)
	assert.Contains(t, out, "Dentist (90% confidence)")

	out, err = run(t, "", "classify", "heart attack")
	require.NoError(t, err)
	assert.Contains(t, out, "EMERGENCY")

	out, err = run(t, "", "classify", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "input_too_short")
}

func TestClassify_StdinAndJSON(t *testing.T) {
	out, err := run(t, "itchy skin rash\n", "classify", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "matched", got["kind"])
	assert.Equal(t, "Dermatologist", got["specialist"])
}

func TestClassify_Explain(t *testing.T) {
	out, err := run(t, "", "classify", "--explain", "stomach ache")
	require.NoError(t, err)
	assert.Contains(t, out, "Gastroenterologist")
	assert.Contains(t, out, "(substring)")
	assert.Contains(t, out, "General Physician")
}

func TestLexicon(t *testing.T) {
	out, err := run(t, "", "lexicon")
	require.NoError(t, err)
	assert.Contains(t, out, "General Physician: fever")
	assert.Contains(t, out, "emergency: accident")

	out, err = run(t, "", "lexicon", "--json")
	require.NoError(t, err)
	var view lexiconView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Len(t, view.Categories, 6)
	assert.Contains(t, view.EmergencyTerms, "heart attack")
}

func TestLexicon_BadPath(t *testing.T) {
	_, err := run(t, "", "--lexicon", filepath.Join(t.TempDir(), "nope.yaml"), "lexicon")
	assert.Error(t, err)
}

func TestEval_DefaultSetPasses(t *testing.T) {
	out, err := run(t, "", "eval")
	require.NoError(t, err)
	assert.Contains(t, out, "guardrails: passed")
}

func TestEval_FailingSet(t *testing.T) {
	cases := []evaluation.GoldenCase{
		{ID: "x-1", Text: "skin rash", ExpectedKind: "matched", ExpectedSpecialist: "Dentist", Difficulty: evaluation.DifficultyEasy},
	}
	data, err := json.Marshal(cases)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cases.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := run(t, "", "eval", path)
	assert.ErrorIs(t, err, errGuardrails)
	assert.Contains(t, out, "FAIL x-1")
	assert.Contains(t, out, "guardrails: FAILED")

	out, err = run(t, "", "eval", "--json", "--min-accuracy", "0", path)
	require.NoError(t, err)
	var report evaluation.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Passed)
	assert.Equal(t, 1, report.Summary.Total)
}
