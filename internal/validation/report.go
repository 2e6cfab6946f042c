package validation

// NationalIDReport describes a checked CPF.
type NationalIDReport struct {
	Input     string `json:"input"`
	Valid     bool   `json:"valid"`
	Canonical string `json:"canonical,omitempty"`
	Masked    string `json:"masked,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// EmailReport describes a checked email address.
type EmailReport struct {
	Input   string `json:"input"`
	Valid   bool   `json:"valid"`
	Address string `json:"address,omitempty"`
	Domain  string `json:"domain,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// PhoneReport describes a checked phone number.
type PhoneReport struct {
	Input     string `json:"input"`
	Valid     bool   `json:"valid"`
	Canonical string `json:"canonical,omitempty"`
	Masked    string `json:"masked,omitempty"`
	DDI       string `json:"ddi,omitempty"`
	DDD       string `json:"ddd,omitempty"`
	Number    string `json:"number,omitempty"`
	Country   string `json:"country,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// CardInput is the raw card data to check.
type CardInput struct {
	Number     string `json:"number"`
	HolderName string `json:"holder_name"`
	Expiration string `json:"expiration"`
	CVV        string `json:"cvv"`
}

// CardReport describes a checked card. The full number and CVV are never
// echoed back.
type CardReport struct {
	Valid        bool   `json:"valid"`
	Brand        string `json:"brand"`
	MaskedNumber string `json:"masked_number,omitempty"`
	HolderName   string `json:"holder_name,omitempty"`
	Expiration   string `json:"expiration,omitempty"`
	Field        string `json:"field,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// CountryReport pairs a dialing code with its country name.
type CountryReport struct {
	AreaCode int    `json:"area_code"`
	Name     string `json:"name"`
	Known    bool   `json:"known"`
}
