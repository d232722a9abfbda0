package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/clarity/internal/logging"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseKeywords(t *testing.T) {
	table, err := ParseKeywords(strings.NewReader(`category,kw1,kw2,kw3
ethics, fairness ,bias,
security,breach,,encryption

 ,orphan
empty,, ,
health,patient
`))
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	cats := table.Categories()
	assert.Equal(t, "ethics", cats[0].Name)
	assert.Equal(t, []string{"fairness", "bias"}, cats[0].Keywords)
	assert.Equal(t, []string{"breach", "encryption"}, cats[1].Keywords)
	assert.Equal(t, "health", cats[2].Name)

	_, ok := table.Keywords("empty")
	assert.False(t, ok)
}

func TestParseKeywords_DuplicateKeepsFirstPosition(t *testing.T) {
	table, err := ParseKeywords(strings.NewReader("category,kw\nethics,bias\nsecurity,breach\nethics,fairness\n"))
	require.NoError(t, err)

	cats := table.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "ethics", cats[0].Name)
	assert.Equal(t, []string{"fairness"}, cats[0].Keywords)
}

func TestParseKeywords_HeaderOnlyAndEmpty(t *testing.T) {
	table, err := ParseKeywords(strings.NewReader("category,kw\n"))
	require.NoError(t, err)
	assert.Zero(t, table.Len())

	table, err = ParseKeywords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, table.Len())
}

func TestParseKeywords_ReadError(t *testing.T) {
	_, err := ParseKeywords(iotest.ErrReader(errors.New("disk gone")))
	assert.ErrorContains(t, err, "disk gone")

	_, err = ParseScenarios(iotest.ErrReader(errors.New("disk gone")))
	assert.ErrorContains(t, err, "disk gone")
}

func TestParseKeywords_BareQuoteInCell(t *testing.T) {
	table, err := ParseKeywords(strings.NewReader("category,kw1,kw2\nethics,so-called \"fair\" models,bias\nsecurity,breach\n"))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	kws, ok := table.Keywords("ethics")
	require.True(t, ok)
	assert.Equal(t, []string{`so-called "fair" models`, "bias"}, kws)
}

func TestKeywordTable_CopiesAreIndependent(t *testing.T) {
	table := NewKeywordTable(Category{Name: "ethics", Keywords: []string{"bias"}})

	cats := table.Categories()
	cats[0].Keywords[0] = "mutated"
	kws, ok := table.Keywords("ethics")
	require.True(t, ok)
	assert.Equal(t, []string{"bias"}, kws)

	var nilTable *KeywordTable
	assert.Zero(t, nilTable.Len())
	assert.Nil(t, nilTable.Categories())
}

func TestLoadKeywords(t *testing.T) {
	path := writeFile(t, "keywords.csv", "category,kw\nethics,bias\n")
	table := LoadKeywords(context.Background(), logging.NewNop(), path)
	assert.Equal(t, 1, table.Len())
}

func TestLoadKeywords_MissingFileFailsSoft(t *testing.T) {
	logger := logging.NewTestLogger()
	table := LoadKeywords(context.Background(), logger.Logger, filepath.Join(t.TempDir(), "nope.csv"))

	require.NotNil(t, table)
	assert.Zero(t, table.Len())
	logger.AssertLogged(t, zapcore.WarnLevel, "failed to load keywords")
}

func TestLoadKeywords_DemoData(t *testing.T) {
	table := LoadKeywords(context.Background(), nil, filepath.Join("..", "..", "data", "demo_keywords.csv"))
	require.Positive(t, table.Len())
	for _, c := range table.Categories() {
		assert.NotEmpty(t, c.Keywords, c.Name)
	}
}

func TestParseScenarios(t *testing.T) {
	got, err := ParseScenarios(strings.NewReader(`Scenario,notes
  Hospital AI leaks records  ,x
"A bank, a loan, and bias"
,blank first cell
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Hospital AI leaks records", "A bank, a loan, and bias"}, got)
}

func TestParseScenarios_BareQuoteInCell(t *testing.T) {
	got, err := ParseScenarios(strings.NewReader("Scenario\nA chatbot said \"trust me\" and leaked data\nDrones collide over the harbour\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		`A chatbot said "trust me" and leaked data`,
		"Drones collide over the harbour",
	}, got)
}

func TestLoadScenarios_FailSoft(t *testing.T) {
	logger := logging.NewTestLogger()
	got := LoadScenarios(context.Background(), logger.Logger, filepath.Join(t.TempDir(), "nope.csv"))
	assert.Empty(t, got)
	logger.AssertLogged(t, zapcore.WarnLevel, "failed to load scenarios")

	path := writeFile(t, "scenarios.csv", "Scenario\nfirst\nsecond\n")
	assert.Equal(t, []string{"first", "second"}, LoadScenarios(context.Background(), logger.Logger, path))
}
