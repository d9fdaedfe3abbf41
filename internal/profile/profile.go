package profile

// Profile is the editable slice of the user record. The PUT endpoint
// accepts partial payloads; empty fields are simply omitted.
type Profile struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}
