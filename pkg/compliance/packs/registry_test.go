package packs

import (
	"os"
	"path/filepath"
	"testing"

	"convoguard/verdict/pkg/compliance"
)

func TestBuiltinRegistry(t *testing.T) {
	registry, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	for _, id := range []string{PackMentalHealthDE, PackHRRecruitingEU, PackGDPRGeneralEU, PackConsumerSalesDE} {
		pack, err := registry.Resolve(id)
		if err != nil {
			t.Errorf("Resolve(%q) error = %v", id, err)
			continue
		}
		if pack.ComplianceThreshold != 70 {
			t.Errorf("pack %q threshold = %d, want 70", id, pack.ComplianceThreshold)
		}
		if pack.RuleCount() == 0 {
			t.Errorf("pack %q has no rules", id)
		}
	}
}

func TestResolveUnknownPack(t *testing.T) {
	registry, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	_, err = registry.Resolve("does-not-exist")
	if err == nil {
		t.Fatal("Resolve() expected error for unknown pack")
	}
	if !compliance.IsPackNotFound(err) {
		t.Errorf("error type = %T, want PackNotFoundError", err)
	}
}

func TestListExposesMetadataOnly(t *testing.T) {
	registry, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	infos := registry.List()
	if len(infos) != 4 {
		t.Fatalf("List() returned %d packs, want 4", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].ID >= infos[i].ID {
			t.Errorf("List() not sorted: %q before %q", infos[i-1].ID, infos[i].ID)
		}
	}
	for _, info := range infos {
		if info.RuleCount == 0 {
			t.Errorf("pack %q reports zero rules", info.ID)
		}
	}
}

func TestDuplicatePackID(t *testing.T) {
	if _, err := NewRegistry(MentalHealthDE(), MentalHealthDE()); err == nil {
		t.Fatal("NewRegistry() expected error for duplicate pack id")
	}
}

func TestValidateRejectsPositiveWeight(t *testing.T) {
	pack := MentalHealthDE()
	pack.DirectRules[0].Weight = 10

	if _, err := NewRegistry(pack); err == nil {
		t.Fatal("NewRegistry() expected error for positive rule weight")
	}
}

func TestGateWeightFallback(t *testing.T) {
	pack := MentalHealthDE()

	if got := pack.GateWeight(compliance.CategorySuicideSelfHarm); got != -50 {
		t.Errorf("GateWeight(SUICIDE_SELF_HARM) = %d, want -50", got)
	}
	if got := pack.GateWeight(compliance.CategorySafetyViolation); got != DefaultGateWeight {
		t.Errorf("GateWeight(unlisted) = %d, want %d", got, DefaultGateWeight)
	}
}

const overlayYAML = `
id: support-chat-test
name: Support Chat (test)
version: 0.1.0
domain: customer-support
jurisdiction: EU
compliance_threshold: 70
detectors:
  - manipulation
  - aggressive-sales
direct_rules:
  - id: support-manipulation
    signal: SIGNAL_MANIPULATION
    category: MANIPULATION
    severity: MEDIUM
    weight: -30
    message: manipulative pressure in support conversation
    regulation_ids: [UCPD-Annex-I]
gate_weights:
  MANIPULATION: -30
`

func TestBuiltinWithOverlays(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "support.yaml"), []byte(overlayYAML), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	registry, err := BuiltinWithOverlays(dir)
	if err != nil {
		t.Fatalf("BuiltinWithOverlays() error = %v", err)
	}

	pack, err := registry.Resolve("support-chat-test")
	if err != nil {
		t.Fatalf("Resolve(overlay) error = %v", err)
	}
	if len(pack.Detectors) != 2 {
		t.Errorf("overlay detectors = %d, want 2", len(pack.Detectors))
	}
	if pack.RuleCount() != 1 {
		t.Errorf("overlay rule count = %d, want 1", pack.RuleCount())
	}
}

func TestLoadFileUnknownDetector(t *testing.T) {
	dir := t.TempDir()
	bad := "id: x\ncompliance_threshold: 70\ndetectors: [nope]\n"
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile() expected error for unknown detector id")
	}
}
