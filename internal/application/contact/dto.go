package contact

// SendInput is a contact form submission
type SendInput struct {
	Name    string `json:"name" binding:"max=200"`
	Email   string `json:"email" binding:"max=200"`
	Message string `json:"message" binding:"max=5000"`
}

// SendResult acknowledges a relayed message
type SendResult struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}
