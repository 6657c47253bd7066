package yamltoolchain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtool/ccfeatures/internal/featureconfig"
)

const sampleToolchain = `
features:
  - name: opt
    enabled: true
    implies: [strip]
  - name: strip
    requires:
      - features: [opt]

action_configs:
  - name: cxx-link
    action_name: c++-link
    enabled: true
    tools:
      - path: clang++

artifact_name_patterns:
  - category: object_file
    pattern: "/%{output_directory}/%{base_name}.o"
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "toolchain.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleToolchain), 0o644))
	return path
}

func TestDecode(t *testing.T) {
	record, err := Decode(context.Background(), writeSample(t))
	require.NoError(t, err)

	require.Len(t, record.Features, 2)
	require.Len(t, record.ActionConfigs, 1)
	require.Len(t, record.ArtifactNamePatterns, 1)
	assert.Equal(t, []string{"strip"}, record.Features[0].Implies)
}

func TestDecodedRecordDrivesFeatureConfigEngine(t *testing.T) {
	record, err := Decode(context.Background(), writeSample(t))
	require.NoError(t, err)

	engine, err := featureconfig.Build(record, "/usr/bin")
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, fc.IsEnabled("opt"))
	assert.True(t, fc.IsEnabled("strip"))

	tool, err := fc.ToolForAction("c++-link")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/clang++", tool.Path())
}
