package entities

// Message is a platform-neutral outbound chat message
type Message struct {
	Content     string
	Title       string
	Description string
	Color       int
	Footer      string
}

// Embed colors used by notifications
const (
	ColorInfo    = 0x3498db
	ColorSuccess = 0x2ecc71
	ColorWarning = 0xf39c12
	ColorError   = 0xe74c3c
)
