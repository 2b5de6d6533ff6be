// Package files loads tool inputs from the local filesystem: IAM policy
// documents (JSON or Terraform), host configuration files, web assets, event
// logs and telemetry tables.
//
// Loaders never interpret what they read beyond parsing it; every check
// lives in the rules package. Read and parse failures are returned as errors
// and are fatal to the calling tool.
package files

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/models"
)

// PolicyFile loads the IAM policy documents held in one file. Files ending in
// .tf are read as Terraform; anything else is read as a JSON policy.
type PolicyFile struct {
	Path string

	// Dynamic lists the Terraform block references whose policy could not be
	// evaluated statically (interpolations, function calls). It is filled by
	// LoadPolicies.
	Dynamic []string
}

// LoadPolicies implements the IAM policy source used by the IAM collector.
func (p *PolicyFile) LoadPolicies(_ context.Context) ([]*models.PolicyDocument, error) {
	if IsTerraform(p.Path) {
		docs, dynamic, err := LoadTerraformPolicies(p.Path)
		if err != nil {
			return nil, err
		}
		p.Dynamic = dynamic
		return docs, nil
	}
	doc, err := LoadPolicyJSON(p.Path)
	if err != nil {
		return nil, err
	}
	return []*models.PolicyDocument{doc}, nil
}

// Describe returns the input path for report metadata.
func (p *PolicyFile) Describe() []string { return []string{p.Path} }

// IsTerraform reports whether path names a Terraform configuration file.
func IsTerraform(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tf")
}

// LoadPolicyJSON reads and parses a single JSON policy document.
func LoadPolicyJSON(path string) (*models.PolicyDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}
	doc, err := ParsePolicyJSON(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}
	return doc, nil
}

// ParsePolicyJSON decodes a policy document. source is recorded on the
// returned document as its origin. A document without a Statement key has no
// statements.
func ParsePolicyJSON(source string, data []byte) (*models.PolicyDocument, error) {
	var doc models.PolicyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc.Source = source
	return &doc, nil
}

// ReportStem returns the input file name without directory and final
// extension; the IAM report is named <stem>_report.txt.
func ReportStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
