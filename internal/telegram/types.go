package telegram

// Wire types for the subset of the Bot API this client touches.

// GetUpdatesResponse represents incoming updates
type GetUpdatesResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
	Result      []struct {
		UpdateID int64       `json:"update_id"`
		Message  MessageType `json:"message"`
	} `json:"result"`
}

// MessageType contains message data
type MessageType struct {
	MessageID int64    `json:"message_id"`
	Date      int64    `json:"date"`
	Chat      ChatType `json:"chat"`
	Text      string   `json:"text"`
}

// ChatType contains chat data
type ChatType struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	UserName string `json:"username"`
}

// SendMessageResponse acknowledges an outbound message
type SendMessageResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
}
