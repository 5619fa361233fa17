package entity

// PaymentGatewaySettings credenciales de la pasarela de pagos (fila única).
type PaymentGatewaySettings struct {
	ID            string  `json:"id,omitempty"`
	Provider      string  `json:"provider"`
	PublicKey     string  `json:"public_key"`
	SecretKey     string  `json:"secret_key"`
	WebhookSecret *string `json:"webhook_secret"`
	TestMode      bool    `json:"test_mode"`
}
