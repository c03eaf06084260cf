package models

// InventoryItem is one stock record, keyed for ingestion by its normalized Model.
type InventoryItem struct {
	ID                int    `json:"id"`
	Type              string `json:"type"`
	Manufacturer      string `json:"manufacturer"`
	Model             string `json:"model"`
	Description       string `json:"description"`
	SumDescription    string `json:"sum_description"`
	Qty               int    `json:"qty"`
	HeadConfiguration string `json:"head_configuration,omitempty"`
	Dept              string `json:"dept"`
	Status            string `json:"status"`
	Area              string `json:"area"`
	Location          string `json:"location"`
	Site              string `json:"site"`
}

// Label is the human-readable item name used in listings and notifications.
func (i InventoryItem) Label() string {
	label := i.Model
	if i.Manufacturer != "" {
		label = i.Manufacturer + " " + label
	}
	if i.Description != "" {
		label += " (" + i.Description + ")"
	}
	return label
}
