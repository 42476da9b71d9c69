package hierarchy

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/agency-pulse/internal/model"
	"github.com/Veraticus/agency-pulse/internal/names"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Entries []seedEntry `yaml:"entries"`
}

type seedEntry struct {
	Name    string `yaml:"name"`
	Rank    string `yaml:"rank"`
	Manager string `yaml:"manager"`
	Code    string `yaml:"code"`
}

// Seed returns the built-in starting organization for an agency.
func Seed(agency string) ([]model.HierarchyEntry, error) {
	return parseSeed(seedYAML, agency)
}

func parseSeed(data []byte, agency string) ([]model.HierarchyEntry, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed hierarchy: %w", err)
	}

	known := make(map[string]bool, len(file.Entries))
	for _, e := range file.Entries {
		known[names.Normalize(e.Name)] = true
	}

	entries := make([]model.HierarchyEntry, 0, len(file.Entries))
	for i, e := range file.Entries {
		if names.Normalize(e.Name) == "" {
			return nil, fmt.Errorf("seed entry %d: missing name", i+1)
		}
		rank, err := model.ParseRank(e.Rank)
		if err != nil {
			return nil, fmt.Errorf("seed entry %s: %w", e.Name, err)
		}
		if e.Manager != "" && !known[names.Normalize(e.Manager)] {
			return nil, fmt.Errorf("seed entry %s: unknown manager %q", e.Name, e.Manager)
		}
		entries = append(entries, model.HierarchyEntry{
			ID:          EntryID(e.Name, agency),
			Name:        e.Name,
			Rank:        rank,
			ManagerName: e.Manager,
			Agency:      agency,
			Code:        e.Code,
		})
	}
	return entries, nil
}
