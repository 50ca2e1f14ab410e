package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func defaultConfig() Config {
	return Config{ConfidenceThreshold: 0.5, MinConsecutiveCount: 3, DefaultClassIndex: 2}
}

func TestSingleFrameSpikeIsSuppressed(t *testing.T) {
	var f ConsecutiveDetections
	cfg := defaultConfig()
	out := make([]float32, 3)

	f.Step(cfg, []float32{0.9, 0.1, 0.0}, out)
	assert.Equal(t, []float32{0, 0, 1}, out, "single frame must not be enough to confirm")
}

func TestClassConfirmedAfterMinConsecutiveFrames(t *testing.T) {
	var f ConsecutiveDetections
	cfg := defaultConfig()
	out := make([]float32, 3)

	for i := 0; i < 2; i++ {
		f.Step(cfg, []float32{0.9, 0.1, 0.0}, out)
		assert.Equal(t, []float32{0, 0, 1}, out)
	}
	f.Step(cfg, []float32{0.9, 0.1, 0.0}, out)
	assert.Equal(t, []float32{1, 0, 0}, out, "third consecutive frame confirms class 0")
}

func TestClassChangeResetsRunLength(t *testing.T) {
	var f ConsecutiveDetections
	cfg := defaultConfig()
	out := make([]float32, 3)

	f.Step(cfg, []float32{0.9, 0.1, 0.0}, out)
	f.Step(cfg, []float32{0.9, 0.1, 0.0}, out)
	f.Step(cfg, []float32{0.1, 0.9, 0.0}, out) // class flips before confirmation
	assert.Equal(t, []float32{0, 0, 1}, out)

	f.Step(cfg, []float32{0.1, 0.9, 0.0}, out)
	f.Step(cfg, []float32{0.1, 0.9, 0.0}, out)
	assert.Equal(t, []float32{0, 1, 0}, out, "class 1 needed its own 3-frame run")
}

func TestBelowThresholdFallsBackToDefaultClass(t *testing.T) {
	var f ConsecutiveDetections
	cfg := defaultConfig()
	out := make([]float32, 3)

	for i := 0; i < 5; i++ {
		f.Step(cfg, []float32{0.3, 0.2, 0.0}, out)
	}
	assert.Equal(t, []float32{0, 0, 1}, out, "no class clears the confidence threshold")
}

func TestResetClearsRunState(t *testing.T) {
	var f ConsecutiveDetections
	cfg := defaultConfig()
	out := make([]float32, 3)

	f.Step(cfg, []float32{0.9, 0.1, 0.0}, out)
	f.Step(cfg, []float32{0.9, 0.1, 0.0}, out)
	f.Reset()
	f.Step(cfg, []float32{0.9, 0.1, 0.0}, out)
	assert.Equal(t, []float32{0, 0, 1}, out, "reset must drop the accumulated run length")
}
