package domain

import "fmt"

// Accounts-payable status of a shipment (broker paying the carrier).
type APStatus string

const (
	APNew          APStatus = "new"
	APReceived     APStatus = "received"
	APReviewing    APStatus = "reviewing"
	APDisputed     APStatus = "disputed"
	APAuditPass    APStatus = "audit_pass"
	APPayScheduled APStatus = "pay_scheduled"
)

// Terminal reports whether the AP workflow has finished auditing.
// Receivables work for a shipment only begins past this point.
func (s APStatus) Terminal() bool {
	return s == APAuditPass || s == APPayScheduled
}

// Accounts-receivable status of a shipment (broker invoicing the shipper).
type ARStatus string

const (
	ARPending   ARStatus = "pending"
	ARInvoicing ARStatus = "invoicing"
	ARInvoiced  ARStatus = "invoiced"
	ARPaid      ARStatus = "paid"
)

// Represents a single brokered load worked by the demo agent.
// Shipments are created from the scenario seed list at start/reset and
// mutated in place (status fields only) as scripted steps fire.
// Field names on the wire match the REST responses so stream consumers
// see one shape.
type Shipment struct {
	Ref             string   `json:"ref"`
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	Carrier         string   `json:"carrier"`
	Shipper         string   `json:"shipper"`
	CarrierRate     Cents    `json:"carrier_rate_cents"`     // what the broker owes the carrier (AP side)
	InvoiceAmount   Cents    `json:"invoice_amount_cents"`   // what the broker bills the shipper (AR side)
	DetentionCharge Cents    `json:"detention_charge_cents"` // zero when the carrier claimed no detention
	APStatus        APStatus `json:"ap_status"`
	ARStatus        ARStatus `json:"ar_status"`
	PendingAction   bool     `json:"pending_action"` // a gated step is waiting on human approval
}

// HasDetention reports whether the carrier claimed a detention charge,
// which selects the longer dispute branch of the AP script.
func (s *Shipment) HasDetention() bool { return s.DetentionCharge > 0 }

// Monetary amount in US cents.
type Cents int64

// USD renders the amount as a dollar string, e.g. "$1,850.00".
func (c Cents) USD() string {
	neg := c < 0
	if neg {
		c = -c
	}
	dollars := int64(c) / 100
	frac := int64(c) % 100

	var groups []int64
	for {
		groups = append(groups, dollars%1000)
		dollars /= 1000
		if dollars == 0 {
			break
		}
	}

	out := fmt.Sprintf("%d", groups[len(groups)-1])
	for i := len(groups) - 2; i >= 0; i-- {
		out += fmt.Sprintf(",%03d", groups[i])
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, out, frac)
}
