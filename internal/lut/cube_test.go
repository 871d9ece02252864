package lut

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tinyCube is a valid 2x2x2 identity table.
const tinyCube = `# identity
TITLE "tiny"
LUT_3D_SIZE 2
DOMAIN_MIN 0.0 0.0 0.0
DOMAIN_MAX 1.0 1.0 1.0
0.0 0.0 0.0
1.0 0.0 0.0
0.0 1.0 0.0
1.0 1.0 0.0
0.0 0.0 1.0
1.0 0.0 1.0
0.0 1.0 1.0
1.0 1.0 1.0
`

func TestParseCube(t *testing.T) {
	spec, err := ParseCube(strings.NewReader(tinyCube))
	require.NoError(t, err)

	assert.Equal(t, "tiny", spec.Title)
	assert.Equal(t, 2, spec.Size)
	assert.Equal(t, [3]float64{0, 0, 0}, spec.DomainMin)
	assert.Equal(t, [3]float64{1, 1, 1}, spec.DomainMax)
	require.Len(t, spec.Samples, 8)
	assert.Equal(t, [3]float64{1, 1, 1}, spec.Samples[7])
}

func TestParseCubeSampleCountMismatch(t *testing.T) {
	truncated := strings.Join(strings.Split(strings.TrimSpace(tinyCube), "\n")[:10], "\n")

	_, err := ParseCube(strings.NewReader(truncated))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample count")
}

func TestParseCubeRejectsBadSize(t *testing.T) {
	for _, size := range []string{"1", "129", "banana"} {
		_, err := ParseCube(strings.NewReader("LUT_3D_SIZE " + size + "\n"))
		require.Error(t, err, "size %s", size)
		assert.Contains(t, err.Error(), "LUT size")
	}
}

func TestParseCubeRejectsMissingSize(t *testing.T) {
	_, err := ParseCube(strings.NewReader("0.0 0.0 0.0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LUT_3D_SIZE")
}

func TestParseCubeRejects1D(t *testing.T) {
	_, err := ParseCube(strings.NewReader("LUT_1D_SIZE 16\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1D")
}

func TestParseCubeRejectsMalformedSample(t *testing.T) {
	_, err := ParseCube(strings.NewReader("LUT_3D_SIZE 2\n0.0 zero 0.0\n"))
	require.Error(t, err)
}
