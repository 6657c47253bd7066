// Package hcltoolchain decodes an HCL toolchain feature description into a
// toolchain.ConfigurationRecord, the way the teacher's internal/engine
// decodes an HCL grid file into a schema.GridConfig: hclparse.NewParser()
// feeding gohcl.DecodeBody into a tagged struct, with a directory of files
// resolved first via internal/fsutil.
package hcltoolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/buildtool/ccfeatures/internal/ctxlog"
	"github.com/buildtool/ccfeatures/internal/fsutil"
	"github.com/buildtool/ccfeatures/internal/toolchain"
)

// Decode resolves path to one or more .hcl files — a single file, or every
// .hcl file found recursively under a directory — and decodes them into a
// single toolchain.ConfigurationRecord. Files are processed in the order
// fsutil.FindFilesByExtension returns them; a feature or action config
// declared in a later file does not shadow one from an earlier file, it is
// simply appended (toolchain.Build itself rejects the resulting duplicate).
func Decode(ctx context.Context, path string) (toolchain.ConfigurationRecord, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := resolveFiles(path)
	if err != nil {
		return toolchain.ConfigurationRecord{}, err
	}

	var record toolchain.ConfigurationRecord
	parser := hclparse.NewParser()
	for _, file := range files {
		logger.Debug("decoding toolchain HCL file", "path", file)

		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return toolchain.ConfigurationRecord{}, fmt.Errorf("parsing %s: %s", file, diags.Error())
		}

		var doc fileConfig
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &doc); diags.HasErrors() {
			return toolchain.ConfigurationRecord{}, fmt.Errorf("decoding %s: %s", file, diags.Error())
		}

		if err := appendDocument(&record, doc); err != nil {
			return toolchain.ConfigurationRecord{}, fmt.Errorf("%s: %w", file, err)
		}
	}

	logger.Debug("decoded toolchain description",
		"features", len(record.Features),
		"action_configs", len(record.ActionConfigs),
		"artifact_name_patterns", len(record.ArtifactNamePatterns))
	return record, nil
}

func resolveFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("toolchain path not found: %w", err)
	}
	if info.IsDir() {
		return fsutil.FindFilesByExtension(path, ".hcl")
	}
	if filepath.Ext(path) != ".hcl" {
		return nil, fmt.Errorf("not an .hcl file: %s", path)
	}
	return []string{path}, nil
}

func appendDocument(record *toolchain.ConfigurationRecord, doc fileConfig) error {
	for _, f := range doc.Features {
		feature, err := convertFeature(f)
		if err != nil {
			return err
		}
		record.Features = append(record.Features, feature)
	}
	for _, a := range doc.ActionConfigs {
		actionConfig, err := convertActionConfig(a)
		if err != nil {
			return err
		}
		record.ActionConfigs = append(record.ActionConfigs, actionConfig)
	}
	for _, p := range doc.ArtifactNamePatterns {
		pattern, err := convertArtifactNamePattern(p)
		if err != nil {
			return err
		}
		record.ArtifactNamePatterns = append(record.ArtifactNamePatterns, pattern)
	}
	return nil
}
