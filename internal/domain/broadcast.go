package domain

// BroadcastContent is the single message unit an admin broadcast carries:
// either plain text or a photo with an optional caption.
type BroadcastContent struct {
	Text    string
	PhotoID string
	Caption string
}

func (c BroadcastContent) IsPhoto() bool { return c.PhotoID != "" }
