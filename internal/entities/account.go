package entities

// Account mirrors a row in user_data. The phone binding is written exactly
// once per account; re-binding the same phone is acknowledged, never repeated.
type Account struct {
	ID                 string `json:"user_id"`
	Phone              string `json:"user_phone"`
	WhatsAppIntegrated bool   `json:"whatsapp_integrated"`
}
