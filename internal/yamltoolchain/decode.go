// Package yamltoolchain decodes a YAML toolchain feature description into a
// toolchain.ConfigurationRecord — the same record shape internal/hcltoolchain
// produces from HCL, demonstrating that the selection engine is format
// agnostic. Grounded on gopkg.in/yaml.v3's Unmarshal-into-tagged-struct
// idiom.
package yamltoolchain

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/buildtool/ccfeatures/internal/ctxlog"
	"github.com/buildtool/ccfeatures/internal/toolchain"
)

// Decode reads and decodes the YAML toolchain description at path.
func Decode(ctx context.Context, path string) (toolchain.ConfigurationRecord, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("decoding toolchain YAML file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return toolchain.ConfigurationRecord{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return toolchain.ConfigurationRecord{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	record, err := convertDocument(doc)
	if err != nil {
		return toolchain.ConfigurationRecord{}, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("decoded toolchain description",
		"features", len(record.Features),
		"action_configs", len(record.ActionConfigs),
		"artifact_name_patterns", len(record.ArtifactNamePatterns))
	return record, nil
}

func convertDocument(doc document) (toolchain.ConfigurationRecord, error) {
	var record toolchain.ConfigurationRecord

	for _, f := range doc.Features {
		feature, err := convertFeature(f)
		if err != nil {
			return toolchain.ConfigurationRecord{}, err
		}
		record.Features = append(record.Features, feature)
	}
	for _, a := range doc.ActionConfigs {
		actionConfig, err := convertActionConfig(a)
		if err != nil {
			return toolchain.ConfigurationRecord{}, err
		}
		record.ActionConfigs = append(record.ActionConfigs, actionConfig)
	}
	for _, p := range doc.ArtifactNamePatterns {
		pattern, err := convertArtifactNamePattern(p)
		if err != nil {
			return toolchain.ConfigurationRecord{}, err
		}
		record.ArtifactNamePatterns = append(record.ArtifactNamePatterns, pattern)
	}

	return record, nil
}
