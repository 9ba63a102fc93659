package dto

type ShipmentResponse struct {
	Ref                  string `json:"ref"`
	Origin               string `json:"origin"`
	Destination          string `json:"destination"`
	Carrier              string `json:"carrier"`
	Shipper              string `json:"shipper"`
	CarrierRateCents     int64  `json:"carrier_rate_cents"`
	InvoiceAmountCents   int64  `json:"invoice_amount_cents"`
	DetentionChargeCents int64  `json:"detention_charge_cents"`
	APStatus             string `json:"ap_status"`
	ARStatus             string `json:"ar_status"`
	PendingAction        bool   `json:"pending_action"`
}

type ListShipmentsResponse struct {
	Shipments []ShipmentResponse `json:"shipments"`
	APCounts  map[string]int     `json:"ap_counts"`
	ARCounts  map[string]int     `json:"ar_counts"`
}

type ShipmentDetailResponse struct {
	Shipment   ShipmentResponse   `json:"shipment"`
	Activities []ActivityResponse `json:"activities"`
}
