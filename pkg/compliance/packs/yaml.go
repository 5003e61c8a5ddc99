package packs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/compliance/detector"
	"convoguard/verdict/pkg/compliance/rules"
)

// detectorCatalog maps the detector ids usable from YAML pack definitions
// to their constructors.
var detectorCatalog = map[string]func() detector.Detector{
	"crisis":            detector.NewCrisis,
	"crisis-escalation": detector.NewCrisisEscalation,
	"manipulation":      detector.NewManipulation,
	"illegal-substance": detector.NewIllegalSubstance,
	"bias":              func() detector.Detector { return detector.NewBias() },
	"medical-dosage":    detector.NewMedicalDosage,
	"unverified-claim":  detector.NewUnverifiedClaim,
	"gdpr-special-data": detector.NewSpecialCategoryData,
	"aggressive-sales":  detector.NewAggressiveSales,
	"formality":         func() detector.Detector { return detector.NewFormality() },
}

// packFile is the YAML schema for operator-supplied pack overlays.
type packFile struct {
	ID                  string                       `yaml:"id"`
	Name                string                       `yaml:"name"`
	Version             string                       `yaml:"version"`
	Domain              string                       `yaml:"domain"`
	Jurisdiction        string                       `yaml:"jurisdiction"`
	ComplianceThreshold int                          `yaml:"compliance_threshold"`
	Detectors           []string                     `yaml:"detectors"`
	DirectRules         []rules.DirectRule           `yaml:"direct_rules"`
	SequenceRules       []rules.SequenceRule         `yaml:"sequence_rules"`
	GateWeights         map[compliance.Category]int  `yaml:"gate_weights"`
}

// LoadFile parses one YAML pack definition.
func LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack file %q: %w", path, err)
	}

	var pf packFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse pack file %q: %w", path, err)
	}

	detectors := make([]detector.Detector, 0, len(pf.Detectors))
	for _, id := range pf.Detectors {
		build, ok := detectorCatalog[id]
		if !ok {
			return nil, fmt.Errorf("pack file %q: unknown detector %q", path, id)
		}
		detectors = append(detectors, build())
	}

	return &Pack{
		ID:                  pf.ID,
		Name:                pf.Name,
		Version:             pf.Version,
		Domain:              pf.Domain,
		Jurisdiction:        pf.Jurisdiction,
		Detectors:           detectors,
		DirectRules:         pf.DirectRules,
		SequenceRules:       pf.SequenceRules,
		GateWeights:         pf.GateWeights,
		ComplianceThreshold: pf.ComplianceThreshold,
	}, nil
}

// LoadDirectory loads all *.yaml/*.yml pack definitions in dir, sorted by
// file name for reproducible registration order.
func LoadDirectory(dir string) ([]*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack directory %q: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	loaded := make([]*Pack, 0, len(names))
	for _, name := range names {
		pack, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, pack)
	}
	return loaded, nil
}

// BuiltinWithOverlays builds a registry from the built-in packs plus every
// pack definition found in dir. An empty dir path returns the built-ins
// only. Overlay ids must not collide with built-in ids.
func BuiltinWithOverlays(dir string) (*Registry, error) {
	all := []*Pack{
		MentalHealthDE(),
		HRRecruitingEU(),
		GDPRGeneralEU(),
		ConsumerSalesDE(),
	}
	if dir != "" {
		overlays, err := LoadDirectory(dir)
		if err != nil {
			return nil, err
		}
		all = append(all, overlays...)
	}
	return NewRegistry(all...)
}
