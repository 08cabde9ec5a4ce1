package models

// SideType define the direction of a signal
type SideType string

// Global enums
const (
	SideTypeBuy  SideType = "BUY"
	SideTypeSell SideType = "SELL"
)

// Opposite returns the contrary side
func (s SideType) Opposite() SideType {
	if s == SideTypeBuy {
		return SideTypeSell
	}
	return SideTypeBuy
}
