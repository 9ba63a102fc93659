package domain

import (
	"encoding/json"
	"testing"
)

func TestStatusEventMatchesRestFieldNames(t *testing.T) {
	ev := Event{
		Kind:        EventKindStatus,
		ShipmentRef: "TL-9",
		Shipment: &Shipment{
			Ref:         "TL-9",
			CarrierRate: 185000,
			APStatus:    APReviewing,
			ARStatus:    ARPending,
		},
	}

	buf, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	sh, ok := decoded["shipment"].(map[string]any)
	if !ok {
		t.Fatalf("shipment payload missing: %s", buf)
	}

	// Stream consumers must see the same keys the REST responses use.
	if sh["ap_status"] != "reviewing" {
		t.Fatalf("ap_status = %v, want reviewing", sh["ap_status"])
	}
	if sh["carrier_rate_cents"].(float64) != 185000 {
		t.Fatalf("carrier_rate_cents = %v, want 185000", sh["carrier_rate_cents"])
	}
	for _, key := range []string{"APStatus", "CarrierRate", "Ref"} {
		if _, exported := sh[key]; exported {
			t.Fatalf("shipment payload carries Go field name %q: %s", key, buf)
		}
	}
}
