package domain

// Colour is a 24-bit RGB value, the form chat webhooks expect.
type Colour int

const (
	ColourNone        Colour = 0
	ColourBrightGreen Colour = 0x01F9C6
	ColourRed         Colour = 0xCD6D6D
	ColourBlue        Colour = 0x3498DB
)

type Notice struct {
	Text   string
	Colour Colour
}
