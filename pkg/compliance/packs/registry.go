package packs

import (
	"fmt"
	"sort"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/compliance/detector"
	"convoguard/verdict/pkg/compliance/rules"
)

// Pack is one policy pack: the detectors to run, the rules that turn their
// signals into violations, the weights applied to external gate findings,
// and the compliance threshold. Packs are immutable once registered.
type Pack struct {
	// ID is the pack identifier used in evaluate calls (e.g. "mental-health-de").
	ID string

	// Name is the human-readable pack name.
	Name string

	// Version is the pack definition version.
	Version string

	// Domain describes the regulated domain (e.g. "digital-health").
	Domain string

	// Jurisdiction is the legal scope (e.g. "DE/EU").
	Jurisdiction string

	// Detectors are the classifiers this pack runs, in registration order.
	Detectors []detector.Detector

	// DirectRules map single signals onto violations.
	DirectRules []rules.DirectRule

	// SequenceRules encode presence-then-absence conditions over turn order.
	SequenceRules []rules.SequenceRule

	// GateWeights assigns point deductions to external risk-analysis
	// findings by category. Categories not listed fall back to
	// DefaultGateWeight.
	GateWeights map[compliance.Category]int

	// ComplianceThreshold is the minimum score for compliance in the
	// absence of HIGH-severity violations.
	ComplianceThreshold int
}

// DefaultGateWeight is the deduction for gate findings whose category the
// pack does not list. Losing points on unknown categories keeps the
// fail-closed posture at the weight level.
const DefaultGateWeight = -20

// RuleCount returns the total number of rules, for discovery metadata.
func (p *Pack) RuleCount() int {
	return len(p.DirectRules) + len(p.SequenceRules)
}

// GateWeight returns the deduction for an external finding of the given
// category.
func (p *Pack) GateWeight(category compliance.Category) int {
	if w, ok := p.GateWeights[category]; ok {
		return w
	}
	return DefaultGateWeight
}

// Info is the externally visible pack metadata. Rule internals are not
// exposed through discovery.
type Info struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Version      string `json:"version"`
	Domain       string `json:"domain"`
	Jurisdiction string `json:"jurisdiction"`
	RuleCount    int    `json:"rule_count"`
}

// Registry is a read-only lookup table from pack id to pack. It requires
// no locking: it is fully populated at construction and never mutated.
type Registry struct {
	packs map[string]*Pack
	order []string
}

// NewRegistry builds a registry from the given packs. Duplicate ids are an
// error: silently shadowing a pack definition is exactly the kind of
// configuration drift an audit system must not allow.
func NewRegistry(packs ...*Pack) (*Registry, error) {
	r := &Registry{packs: make(map[string]*Pack, len(packs))}
	for _, p := range packs {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("pack %q: %w", p.ID, err)
		}
		if _, exists := r.packs[p.ID]; exists {
			return nil, fmt.Errorf("duplicate pack id %q", p.ID)
		}
		r.packs[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	sort.Strings(r.order)
	return r, nil
}

// Resolve returns the pack for the given id, or PackNotFoundError. There
// is no default pack.
func (r *Registry) Resolve(id string) (*Pack, error) {
	p, ok := r.packs[id]
	if !ok {
		return nil, &compliance.PackNotFoundError{PackID: id}
	}
	return p, nil
}

// List returns metadata for all registered packs, sorted by id.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		p := r.packs[id]
		infos = append(infos, Info{
			ID:           p.ID,
			Name:         p.Name,
			Version:      p.Version,
			Domain:       p.Domain,
			Jurisdiction: p.Jurisdiction,
			RuleCount:    p.RuleCount(),
		})
	}
	return infos
}

// validate checks structural invariants of a pack definition.
func validate(p *Pack) error {
	if p.ID == "" {
		return fmt.Errorf("pack id is required")
	}
	if p.ComplianceThreshold < 0 || p.ComplianceThreshold > 100 {
		return fmt.Errorf("compliance threshold %d outside [0,100]", p.ComplianceThreshold)
	}
	if len(p.Detectors) == 0 {
		return fmt.Errorf("pack declares no detectors")
	}
	seen := make(map[string]bool)
	for _, d := range p.Detectors {
		if seen[d.ID()] {
			return fmt.Errorf("duplicate detector %q", d.ID())
		}
		seen[d.ID()] = true
	}
	for _, rule := range p.DirectRules {
		if rule.Weight > 0 {
			return fmt.Errorf("rule %q: weight %d must not be positive", rule.ID, rule.Weight)
		}
	}
	for _, rule := range p.SequenceRules {
		if rule.Weight > 0 {
			return fmt.Errorf("rule %q: weight %d must not be positive", rule.ID, rule.Weight)
		}
	}
	return nil
}
