package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatp(v float64) *float64 { return &v }
func intp(v int) *int           { return &v }
func strp(v string) *string     { return &v }
func boolp(v bool) *bool        { return &v }

func TestComputeBMI(t *testing.T) {
	bmi := ComputeBMI(floatp(170), floatp(70))
	require.NotNil(t, bmi)
	assert.InDelta(t, 70/(1.7*1.7), *bmi, 0.001)

	bmi = ComputeBMI(floatp(100), floatp(25))
	require.NotNil(t, bmi)
	assert.InDelta(t, 25.0, *bmi, 0.001)
}

func TestComputeBMIUndefined(t *testing.T) {
	assert.Nil(t, ComputeBMI(nil, floatp(70)))
	assert.Nil(t, ComputeBMI(floatp(170), nil))
	assert.Nil(t, ComputeBMI(nil, nil))
	assert.Nil(t, ComputeBMI(floatp(0), floatp(70)))
	assert.Nil(t, ComputeBMI(floatp(170), floatp(0)))
}

func TestComputeMAP(t *testing.T) {
	m := ComputeMAP(intp(120), intp(80))
	require.NotNil(t, m)
	// (120 + 160) / 3 = 93.33 -> 93
	assert.Equal(t, 93, *m)

	m = ComputeMAP(intp(122), intp(80))
	require.NotNil(t, m)
	// (122 + 160) / 3 = 94.0
	assert.Equal(t, 94, *m)

	m = ComputeMAP(intp(121), intp(80))
	require.NotNil(t, m)
	// (121 + 160) / 3 = 93.67 rounds up, not truncates
	assert.Equal(t, 94, *m)
}

func TestComputeMAPAbsentInputs(t *testing.T) {
	assert.Nil(t, ComputeMAP(nil, intp(80)))
	assert.Nil(t, ComputeMAP(intp(120), nil))
	assert.Nil(t, ComputeMAP(nil, nil))
}

func TestComputeAldreteTotal(t *testing.T) {
	total := ComputeAldreteTotal(intp(2), intp(2), intp(2), intp(2), intp(2))
	require.NotNil(t, total)
	assert.Equal(t, 10, *total)

	total = ComputeAldreteTotal(intp(0), intp(1), intp(2), intp(1), intp(0))
	require.NotNil(t, total)
	assert.Equal(t, 4, *total)

	total = ComputeAldreteTotal(intp(0), intp(0), intp(0), intp(0), intp(0))
	require.NotNil(t, total)
	assert.Equal(t, 0, *total)
}

func TestComputeAldreteTotalIncomplete(t *testing.T) {
	assert.Nil(t, ComputeAldreteTotal(nil, intp(2), intp(2), intp(2), intp(2)))
	assert.Nil(t, ComputeAldreteTotal(intp(2), intp(2), intp(2), intp(2), nil))
	assert.Nil(t, ComputeAldreteTotal(nil, nil, nil, nil, nil))
}
