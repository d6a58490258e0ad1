package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detectionsJSON = `[
  {"box": [100, 100, 200, 200], "score": 0.95, "class": "apple"},
  {"box": [150, 150, 250, 250], "score": 0.90, "class": "apple"},
  {"box": [120, 120, 180, 180], "score": 0.85, "class": "fruit"},
  {"box": [300, 300, 400, 400], "score": 0.88, "class": "orange"}
]`

func writeInputs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)

	files := map[string]string{
		"hierarchy.txt":   "fruit apple\nfruit orange\nmalformed line here\n",
		"id_to_name.txt":  "fruit Fruit\napple Apple\norange Orange\n",
		"detections.json": detectionsJSON,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestRun(t *testing.T) {
	writeInputs(t)

	var out bytes.Buffer
	err := run([]string{
		"-hierarchy", "hierarchy.txt",
		"-names", "id_to_name.txt",
		"-detections", "detections.json",
		"-score-threshold", "0.8",
		"-iou-threshold", "0.3",
		"-log-level", "error",
	}, &out)
	require.NoError(t, err)

	got := lines(out.String())
	require.Len(t, got, 3)
	assert.True(t, strings.HasPrefix(got[0], "#0 Apple [apple]"), got[0])
	assert.True(t, strings.HasPrefix(got[1], "#1 Apple [apple]"), got[1])
	assert.True(t, strings.HasPrefix(got[2], "#3 Orange [orange]"), got[2])
	assert.NotContains(t, out.String(), "Fruit")
}

func TestRun_SortedFromConfigFile(t *testing.T) {
	dir := writeInputs(t)
	cfg := "hierarchy: hierarchy.txt\nnames: id_to_name.txt\ndetections: detections.json\n" +
		"score_threshold: 0.8\niou_threshold: 0.5\nsort_indices: true\nlog_level: error\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hnms.yaml"), []byte(cfg), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", "hnms.yaml"}, &out))

	got := lines(out.String())
	require.Len(t, got, 4)
	for i, prefix := range []string{"#0 ", "#1 ", "#2 Fruit", "#3 "} {
		assert.True(t, strings.HasPrefix(got[i], prefix), got[i])
	}
}

func TestRun_Errors(t *testing.T) {
	writeInputs(t)

	var out bytes.Buffer
	err := run([]string{"-detections", "detections.json"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hierarchy file is required")

	err = run([]string{"-hierarchy", "missing.txt", "-detections", "detections.json", "-log-level", "error"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")

	err = run([]string{"-no-such-flag"}, &out)
	require.Error(t, err)
	assert.Empty(t, out.String())
}
