package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/GlucoRisk/internal/risk"
)

var featureNames = []string{"FBS", "BMI", "Age", "WC", "HC"}

func TestRankContributions(t *testing.T) {
	ranked, ok := risk.RankContributions(featureNames, []float64{0.2, -0.1, 0.05, 0, 0.15})
	require.True(t, ok)
	require.Len(t, ranked, 5)

	want := []risk.Contribution{
		{Feature: "FBS", Percent: 40},
		{Feature: "HC", Percent: 30},
		{Feature: "BMI", Percent: 20},
		{Feature: "Age", Percent: 10},
		{Feature: "WC", Percent: 0},
	}
	var sum float64
	for i, c := range ranked {
		assert.Equal(t, want[i].Feature, c.Feature)
		assert.InDelta(t, want[i].Percent, c.Percent, 1e-9)
		sum += c.Percent
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

func TestRankContributions_AllZero(t *testing.T) {
	ranked, ok := risk.RankContributions(featureNames, []float64{0, 0, 0, 0, 0})
	assert.False(t, ok)
	assert.Nil(t, ranked)
}

func TestRankContributions_TiesKeepFeatureOrder(t *testing.T) {
	ranked, ok := risk.RankContributions(featureNames, []float64{0.1, -0.3, 0.1, 0.3, 0.1})
	require.True(t, ok)

	order := make([]string, len(ranked))
	for i, c := range ranked {
		order[i] = c.Feature
	}
	assert.Equal(t, []string{"BMI", "WC", "FBS", "Age", "HC"}, order)
}

func TestRankContributions_LengthMismatch(t *testing.T) {
	_, ok := risk.RankContributions(featureNames, []float64{1, 2})
	assert.False(t, ok)
}

func TestExtractAttribution(t *testing.T) {
	attr := [][]float64{
		{0.1, 0.2, 0.3, 0.4, 0.5},
		{-0.1, -0.2, -0.3, -0.4, -0.5},
		{1, 2, 3, 4, 5},
	}

	classFirst := make([][][]float64, 3)
	for k := range attr {
		classFirst[k] = [][]float64{attr[k]}
	}

	rows := make([][]float64, 5)
	for j := range rows {
		rows[j] = []float64{attr[0][j], attr[1][j], attr[2][j]}
	}
	sampleFirst := [][][]float64{rows}

	for class := 0; class < 3; class++ {
		got, err := risk.ExtractAttribution(classFirst, class, 5)
		require.NoError(t, err)
		assert.Equal(t, attr[class], got, "class-first class %d", class)

		got, err = risk.ExtractAttribution(sampleFirst, class, 5)
		require.NoError(t, err)
		assert.Equal(t, attr[class], got, "sample-first class %d", class)
	}
}

func TestExtractAttribution_Unrecognised(t *testing.T) {
	tests := []struct {
		name   string
		values [][][]float64
		class  int
	}{
		{"nil", nil, 0},
		{"empty sample", [][][]float64{{}}, 0},
		{"short rows", [][][]float64{{{1, 2}}, {{1, 2}}, {{1, 2}}}, 1},
		{"class out of range in rows", [][][]float64{{{1}, {1}, {1}, {1}, {1}}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := risk.ExtractAttribution(tt.values, tt.class, 5)
			assert.ErrorIs(t, err, risk.ErrAttributionShape)
		})
	}
}
