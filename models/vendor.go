package models

type Vendor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type VendorIn struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,max=20"`
}

type CredentialIn struct {
	Key string `json:"key" validate:"required"`
}

// CredentialOut never echoes the full key back.
type CredentialOut struct {
	Index  int    `json:"index"`
	Masked string `json:"masked"`
	Active bool   `json:"active"`
}
