package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"broker-demo-service/internal/domain"
)

//go:embed default.yaml
var defaultScenario []byte

//go:embed scenario.schema.json
var schemaJSON string

// Authored demo content: shipment seeds plus the step templates the
// engine plays back. A scenario is parsed once at startup, validated,
// and never mutated afterwards.
type Scenario struct {
	Name             string         `yaml:"name"`
	StaggerMs        int            `yaml:"stagger_ms"`
	ARHandoffDelayMs int            `yaml:"ar_handoff_delay_ms"`
	Shipments        []ShipmentSeed `yaml:"shipments"`
	APBaseSteps      []StepTemplate `yaml:"ap_base_steps"`
	APDetentionSteps []StepTemplate `yaml:"ap_detention_steps"`
	APClosingSteps   []StepTemplate `yaml:"ap_closing_steps"`
	ARSteps          []StepTemplate `yaml:"ar_steps"`
}

type ShipmentSeed struct {
	Ref                  string `yaml:"ref"`
	Origin               string `yaml:"origin"`
	Destination          string `yaml:"destination"`
	Carrier              string `yaml:"carrier"`
	Shipper              string `yaml:"shipper"`
	CarrierRateCents     int64  `yaml:"carrier_rate_cents"`
	InvoiceAmountCents   int64  `yaml:"invoice_amount_cents"`
	DetentionChargeCents int64  `yaml:"detention_charge_cents"`
}

type StepTemplate struct {
	DelayMs          int            `yaml:"delay_ms"`
	Event            string         `yaml:"event"`
	Title            string         `yaml:"title"`
	Detail           string         `yaml:"detail"`
	Status           string         `yaml:"status"`
	Document         *DocTemplate   `yaml:"document"`
	RequiresApproval bool           `yaml:"requires_approval"`
	Draft            *DraftTemplate `yaml:"draft"`
}

type DocTemplate struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type DraftTemplate struct {
	To      string `yaml:"to"`
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// Default returns the embedded demo scenario.
func Default() (*Scenario, error) {
	return Parse(defaultScenario)
}

// Load reads and validates a scenario file from disk (custom demos).
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %s: %w", path, err)
	}
	return s, nil
}

// Parse validates raw YAML against the scenario schema, then decodes it
// and applies the semantic checks the schema cannot express.
func Parse(raw []byte) (*Scenario, error) {
	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: decode: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &s, nil
}

// Structural validation: the YAML document is normalized through JSON and
// checked against the embedded JSON Schema.
func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}

	// Round-trip through JSON so the validator sees canonical JSON types.
	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	var norm any
	if err := json.Unmarshal(buf, &norm); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("scenario.schema.json", strings.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	schema, err := compiler.Compile("scenario.schema.json")
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	if err := schema.Validate(norm); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

var validAPStatus = map[string]struct{}{
	string(domain.APNew):          {},
	string(domain.APReceived):     {},
	string(domain.APReviewing):    {},
	string(domain.APDisputed):     {},
	string(domain.APAuditPass):    {},
	string(domain.APPayScheduled): {},
}

var validARStatus = map[string]struct{}{
	string(domain.ARPending):   {},
	string(domain.ARInvoicing): {},
	string(domain.ARInvoiced):  {},
	string(domain.ARPaid):      {},
}

func (s *Scenario) validate() error {
	if len(s.Shipments) == 0 {
		return errors.New("shipments must not be empty")
	}

	seen := map[string]struct{}{}
	for _, seed := range s.Shipments {
		ref := strings.TrimSpace(seed.Ref)
		if ref == "" {
			return errors.New("shipment ref must not be empty")
		}
		if _, dup := seen[ref]; dup {
			return fmt.Errorf("duplicate shipment ref %q", ref)
		}
		seen[ref] = struct{}{}
	}

	checkSteps := func(list []StepTemplate, name string, valid map[string]struct{}) error {
		for i, st := range list {
			if st.DelayMs < 0 {
				return fmt.Errorf("%s[%d]: delay_ms must be >= 0", name, i)
			}
			if strings.TrimSpace(st.Event) == "" {
				return fmt.Errorf("%s[%d]: event must not be empty", name, i)
			}
			if st.Status != "" {
				if _, ok := valid[st.Status]; !ok {
					return fmt.Errorf("%s[%d]: unknown status %q", name, i, st.Status)
				}
			}
			if st.RequiresApproval && st.Draft == nil {
				return fmt.Errorf("%s[%d]: approval-gated step needs a draft", name, i)
			}
		}
		return nil
	}

	if err := checkSteps(s.APBaseSteps, "ap_base_steps", validAPStatus); err != nil {
		return err
	}
	if err := checkSteps(s.APDetentionSteps, "ap_detention_steps", validAPStatus); err != nil {
		return err
	}
	if err := checkSteps(s.APClosingSteps, "ap_closing_steps", validAPStatus); err != nil {
		return err
	}
	if err := checkSteps(s.ARSteps, "ar_steps", validARStatus); err != nil {
		return err
	}

	// The handoff fires on the audit-complete event; a script without one
	// would leave every shipment stuck in AP forever.
	found := false
	for _, st := range s.APClosingSteps {
		if st.Event == domain.EventAuditComplete {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("ap_closing_steps must contain an %q event", domain.EventAuditComplete)
	}

	if len(s.ARSteps) == 0 {
		return errors.New("ar_steps must not be empty")
	}

	return nil
}

// Stagger is the fixed start offset between consecutive shipments.
func (s *Scenario) Stagger() time.Duration {
	return time.Duration(s.StaggerMs) * time.Millisecond
}

// ARHandoffDelay is the fixed extra delay between a shipment's AP audit
// completing and its AR script starting.
func (s *Scenario) ARHandoffDelay() time.Duration {
	return time.Duration(s.ARHandoffDelayMs) * time.Millisecond
}

// Seeds builds fresh shipment aggregates from the seed list. Each call
// returns new values so reset replaces state wholesale.
func (s *Scenario) Seeds() []*domain.Shipment {
	out := make([]*domain.Shipment, 0, len(s.Shipments))
	for _, seed := range s.Shipments {
		out = append(out, &domain.Shipment{
			Ref:             seed.Ref,
			Origin:          seed.Origin,
			Destination:     seed.Destination,
			Carrier:         seed.Carrier,
			Shipper:         seed.Shipper,
			CarrierRate:     domain.Cents(seed.CarrierRateCents),
			InvoiceAmount:   domain.Cents(seed.InvoiceAmountCents),
			DetentionCharge: domain.Cents(seed.DetentionChargeCents),
			APStatus:        domain.APNew,
			ARStatus:        domain.ARPending,
		})
	}
	return out
}

// Compose builds the immutable per-shipment scripts: the AP list is
// base + dispute branch (detention shipments only) + closing, the AR
// list is shared. Placeholders are substituted here, once; playback
// never touches the templates again.
func (s *Scenario) Compose(sh *domain.Shipment) domain.Script {
	ap := make([]domain.SimStep, 0, len(s.APBaseSteps)+len(s.APDetentionSteps)+len(s.APClosingSteps))
	for _, st := range s.APBaseSteps {
		ap = append(ap, st.render(sh))
	}
	if sh.HasDetention() {
		for _, st := range s.APDetentionSteps {
			ap = append(ap, st.render(sh))
		}
	}
	for _, st := range s.APClosingSteps {
		ap = append(ap, st.render(sh))
	}

	ar := make([]domain.SimStep, 0, len(s.ARSteps))
	for _, st := range s.ARSteps {
		ar = append(ar, st.render(sh))
	}

	return domain.Script{ShipmentRef: sh.Ref, AP: ap, AR: ar}
}

func (t StepTemplate) render(sh *domain.Shipment) domain.SimStep {
	step := domain.SimStep{
		Delay:            time.Duration(t.DelayMs) * time.Millisecond,
		Event:            t.Event,
		Title:            substitute(t.Title, sh),
		Detail:           substitute(t.Detail, sh),
		Status:           t.Status,
		RequiresApproval: t.RequiresApproval,
	}

	if t.Document != nil {
		step.Document = &domain.DocumentRef{
			Name: substitute(t.Document.Name, sh),
			URL:  t.Document.URL,
		}
	}
	if t.Draft != nil {
		step.Draft = &domain.EmailDraft{
			To:      substitute(t.Draft.To, sh),
			Subject: substitute(t.Draft.Subject, sh),
			Body:    substitute(t.Draft.Body, sh),
		}
	}
	return step
}

func substitute(text string, sh *domain.Shipment) string {
	r := strings.NewReplacer(
		"{ref}", sh.Ref,
		"{origin}", sh.Origin,
		"{destination}", sh.Destination,
		"{carrier}", sh.Carrier,
		"{shipper}", sh.Shipper,
		"{rate}", sh.CarrierRate.USD(),
		"{invoice}", sh.InvoiceAmount.USD(),
		"{detention}", sh.DetentionCharge.USD(),
	)
	return r.Replace(text)
}
