package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateHeightCmDeterministic(t *testing.T) {
	a := EstimateHeightCm("Mario Maurer")
	b := EstimateHeightCm("Mario Maurer")
	assert.Equal(t, a, b)
}

func TestEstimateHeightCmRange(t *testing.T) {
	names := []string{"A", "Baifern Pimchanok", "Nadech Kugimiya", "张三", ""}
	for _, name := range names {
		h := EstimateHeightCm(name)
		assert.GreaterOrEqual(t, h, 150.0, "name=%q", name)
		assert.LessOrEqual(t, h, 200.0, "name=%q", name)
	}
}

func TestEstimateHeightCmVaries(t *testing.T) {
	a := EstimateHeightCm("Mario Maurer")
	b := EstimateHeightCm("Nadech Kugimiya")
	assert.NotEqual(t, a, b)
}
