package scenario

import (
	"strings"
	"testing"

	"broker-demo-service/internal/domain"
)

func TestDefaultScenarioLoads(t *testing.T) {
	scn, err := Default()
	if err != nil {
		t.Fatalf("default scenario: %v", err)
	}

	if len(scn.Shipments) != 4 {
		t.Fatalf("shipments = %d, want 4", len(scn.Shipments))
	}

	detention := 0
	for _, seed := range scn.Shipments {
		if seed.DetentionChargeCents > 0 {
			detention++
		}
	}
	if detention != 1 {
		t.Fatalf("detention shipments = %d, want 1", detention)
	}

	if scn.Stagger() <= 0 || scn.ARHandoffDelay() <= 0 {
		t.Fatalf("stagger=%s handoff=%s, want both positive", scn.Stagger(), scn.ARHandoffDelay())
	}
}

func TestComposeDetentionBranch(t *testing.T) {
	scn, err := Default()
	if err != nil {
		t.Fatalf("default scenario: %v", err)
	}

	seeds := scn.Seeds()
	var withDet, without *domain.Shipment
	for _, sh := range seeds {
		if sh.HasDetention() {
			withDet = sh
		} else if without == nil {
			without = sh
		}
	}
	if withDet == nil || without == nil {
		t.Fatal("default scenario needs both detention and plain shipments")
	}

	long := scn.Compose(withDet)
	short := scn.Compose(without)

	wantDiff := len(scn.APDetentionSteps)
	if got := len(long.AP) - len(short.AP); got != wantDiff {
		t.Fatalf("AP length diff = %d, want %d", got, wantDiff)
	}

	// The dispute branch sits between base and closing, so audit_complete
	// still follows the detention-proof steps.
	disputeAt, auditAt := -1, -1
	for i, st := range long.AP {
		switch st.Event {
		case "detention_resolved":
			disputeAt = i
		case domain.EventAuditComplete:
			auditAt = i
		}
	}
	if disputeAt == -1 {
		t.Fatal("detention script missing detention_resolved")
	}
	if auditAt == -1 {
		t.Fatal("detention script missing audit_complete")
	}
	if disputeAt >= auditAt {
		t.Fatalf("dispute resolved at %d, audit at %d; want dispute first", disputeAt, auditAt)
	}
	if long.AP[auditAt].Status != string(domain.APAuditPass) {
		t.Fatalf("audit step status = %q, want %q", long.AP[auditAt].Status, domain.APAuditPass)
	}

	for _, st := range short.AP {
		if strings.HasPrefix(st.Event, "detention_") {
			t.Fatalf("plain script contains detention step %q", st.Event)
		}
	}
}

func TestComposeSubstitutesPlaceholders(t *testing.T) {
	scn, err := Default()
	if err != nil {
		t.Fatalf("default scenario: %v", err)
	}

	sh := scn.Seeds()[0]
	script := scn.Compose(sh)

	for _, steps := range [][]domain.SimStep{script.AP, script.AR} {
		for _, st := range steps {
			if strings.Contains(st.Title, "{") || strings.Contains(st.Detail, "{") {
				t.Fatalf("unsubstituted placeholder in step %q: %q / %q", st.Event, st.Title, st.Detail)
			}
			if st.Document != nil && strings.Contains(st.Document.Name, "{") {
				t.Fatalf("unsubstituted placeholder in document name %q", st.Document.Name)
			}
		}
	}

	found := false
	for _, st := range script.AP {
		if strings.Contains(st.Detail, sh.CarrierRate.USD()) {
			found = true
		}
	}
	if !found {
		t.Fatalf("no AP step mentions the carrier rate %s", sh.CarrierRate.USD())
	}
}

func TestGatedStepCarriesDraft(t *testing.T) {
	scn, err := Default()
	if err != nil {
		t.Fatalf("default scenario: %v", err)
	}

	script := scn.Compose(scn.Seeds()[0])
	gated := 0
	for _, st := range script.AR {
		if st.RequiresApproval {
			gated++
			if st.Draft == nil {
				t.Fatalf("gated step %q has no draft", st.Event)
			}
			if strings.Contains(st.Draft.Body, "{") {
				t.Fatalf("unsubstituted placeholder in draft body")
			}
		}
	}
	if gated != 1 {
		t.Fatalf("gated AR steps = %d, want 1", gated)
	}
}

func TestParseRejectsInvalidScenarios(t *testing.T) {
	base := `
name: bad
stagger_ms: 100
ar_handoff_delay_ms: 100
shipments:
  - ref: X-1
    origin: A
    destination: B
    carrier: C
    shipper: S
    carrier_rate_cents: 100
    invoice_amount_cents: 200
ap_base_steps:
  - delay_ms: 10
    event: invoice_received
    title: t
ap_closing_steps:
  - delay_ms: 10
    event: audit_complete
    title: t
    status: audit_pass
ar_steps:
  - delay_ms: 10
    event: invoice_generated
    title: t
    status: invoicing
`
	if _, err := Parse([]byte(base)); err != nil {
		t.Fatalf("baseline scenario should parse: %v", err)
	}

	cases := []struct {
		name string
		edit func(string) string
	}{
		{"missing ar_steps", func(s string) string {
			return strings.Split(s, "ar_steps:")[0]
		}},
		{"unknown status", func(s string) string {
			return strings.Replace(s, "status: invoicing", "status: bogus", 1)
		}},
		{"duplicate ref", func(s string) string {
			return strings.Replace(s, "shipments:", "shipments:\n  - ref: X-1\n    origin: A\n    destination: B\n    carrier: C\n    shipper: S\n    carrier_rate_cents: 1\n    invoice_amount_cents: 1", 1)
		}},
		{"gate without draft", func(s string) string {
			return strings.Replace(s, "status: invoicing", "status: invoicing\n    requires_approval: true", 1)
		}},
		{"no audit_complete", func(s string) string {
			return strings.Replace(s, "event: audit_complete", "event: audit_done", 1)
		}},
		{"unknown field", func(s string) string {
			return s + "\nextra_field: 1\n"
		}},
	}

	for _, tc := range cases {
		if _, err := Parse([]byte(tc.edit(base))); err == nil {
			t.Fatalf("%s: expected parse error", tc.name)
		}
	}
}
