package webhook

// Payload size limits enforced before sending. These follow the common
// chat-webhook limits so one sender works for Slack/Discord-style targets.
const (
	MaxMessageLength = 2000
	MaxTitleLength   = 256
	MaxDescLength    = 4096
	MaxFieldLength   = 1024
	MaxEmbedLength   = 6000
)

// Embed accent colors per MessageType.
const (
	ColorInfo    = 0x3498DB
	ColorSuccess = 0x2ECC71
	ColorWarning = 0xFFA500
	ColorError   = 0xFF0000
)
