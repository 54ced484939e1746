package dto

// LookupResponse is the public ticket lookup payload. It intentionally
// exposes only the fields a visitor needs to present at the gate.
type LookupResponse struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	TicketCode string `json:"ticket_code"`
	QRCode     string `json:"qr_code"`
}

// ContactResponse carries the organizer contact channels
type ContactResponse struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Facebook string `json:"facebook"`
}
