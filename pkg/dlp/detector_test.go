package dlp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectorDetectsPatterns(t *testing.T) {
	detector, err := NewDetector(DefaultRules())
	require.NoError(t, err)

	data := map[string]interface{}{
		"note":   "call +91 98200 12345 or mail ravi@example.com",
		"nested": map[string]interface{}{"dob": "12/05/1990"},
		"list":   []interface{}{"https://pulse.example/report?data=z.AbC-_x"},
		"count":  float64(3),
	}

	result := detector.Detect(data)
	assert.True(t, result.Detected)
	assert.Equal(t, []string{"date", "email", "payload", "phone"}, result.Types)

	sanitized := detector.Sanitize(data)
	assert.Equal(t, "call (***) ***-**** or mail ***@***", sanitized["note"])
	assert.Equal(t, map[string]interface{}{"dob": "##/##/####"}, sanitized["nested"])
	assert.Equal(t, []interface{}{"https://pulse.example/report?data=***"}, sanitized["list"])
	assert.Equal(t, float64(3), sanitized["count"])
}

func TestDetectorLeavesShareMetadataAlone(t *testing.T) {
	detector, err := NewDetector(DefaultRules())
	require.NoError(t, err)

	data := map[string]interface{}{
		"share_id":  "3f2c9a4e-1b7d-4c1e-9a55-0d6b2f8e7c11",
		"ecc_level": "H",
		"url_bytes": float64(812),
	}
	assert.False(t, detector.Detect(data).Detected)
	assert.Equal(t, data, detector.Sanitize(data))
}

func TestNilDetector(t *testing.T) {
	var d *Detector
	data := map[string]interface{}{"a": "ravi@example.com"}
	assert.Equal(t, data, d.Sanitize(data))
	assert.False(t, d.Detect(data).Detected)
}

func TestLoadRules(t *testing.T) {
	cfg, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), cfg)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - name: MRN
    type: mrn
    pattern: 'MRN-\d+'
    mask: MRN-***
    enabled: true
`), 0o600))
	cfg, err = LoadRules(path)
	require.NoError(t, err)
	require.Len(t, cfg.Rules, 1)

	d, err := NewDetector(cfg)
	require.NoError(t, err)
	assert.Equal(t, "id MRN-***", d.Sanitize(map[string]interface{}{"x": "id MRN-7788"})["x"])

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("rules: []\n"), 0o600))
	_, err = LoadRules(empty)
	assert.Error(t, err)

	_, err = NewDetector(RulesConfig{Rules: []Rule{{Pattern: "(", Enabled: true}}})
	assert.Error(t, err)
}
