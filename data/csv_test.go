package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messyCSV = `a,b,y
1,2,3

4,,6
x,8,9
10,11
`

func TestLoadCSV_Policies(t *testing.T) {
	tests := []struct {
		policy   MissingPolicy
		inputs   [][]float64
		expected [][]float64
	}{
		{
			policy:   MissingSkip,
			inputs:   [][]float64{{1, 2}},
			expected: [][]float64{{3}},
		},
		{
			policy:   MissingZero,
			inputs:   [][]float64{{1, 2}, {4, 0}, {0, 8}, {10, 11}},
			expected: [][]float64{{3}, {6}, {9}, {0}},
		},
		{
			// means: a=5, b=7, y=6
			policy:   MissingMean,
			inputs:   [][]float64{{1, 2}, {4, 7}, {5, 8}, {10, 11}},
			expected: [][]float64{{3}, {6}, {9}, {6}},
		},
	}
	for _, tt := range tests {
		ds, err := LoadCSV(strings.NewReader(messyCSV), 2, 1, tt.policy)
		require.NoError(t, err)
		assert.Equal(t, tt.inputs, ds.Inputs, "policy %d", tt.policy)
		assert.Equal(t, tt.expected, ds.Expected, "policy %d", tt.policy)
		assert.Equal(t, len(tt.inputs), ds.Len())
	}
}

func TestLoadCSV_MissingError(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(messyCSV), 2, 1, MissingError)
	assert.ErrorIs(t, err, ErrMissingValue)

	ds, err := LoadCSV(strings.NewReader("a,y\n1,2\n3,4\n"), 1, 1, MissingError)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {3}}, ds.Inputs)
	assert.Equal(t, [][]float64{{2}, {4}}, ds.Expected)
}

func TestLoadCSV_EdgeCases(t *testing.T) {
	ds, err := LoadCSV(strings.NewReader("a,b,y\n"), 2, 1, MissingError)
	require.NoError(t, err)
	assert.Zero(t, ds.Len())

	// extra columns are ignored
	ds, err = LoadCSV(strings.NewReader("a,y,note\n1, 2 ,extra\n"), 1, 1, MissingError)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}}, ds.Inputs)
	assert.Equal(t, [][]float64{{2}}, ds.Expected)

	_, err = LoadCSV(strings.NewReader("a\n1\n"), 0, 1, MissingError)
	assert.Error(t, err)
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(messyCSV), 0o644))

	ds, err := LoadCSVFile(path, 2, 1, MissingSkip)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	_, err = LoadCSVFile(filepath.Join(t.TempDir(), "nope.csv"), 2, 1, MissingSkip)
	assert.Error(t, err)
}
