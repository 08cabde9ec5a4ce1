package models

import "fmt"

type SignalFilter string

const (
	SignalFilterAll       SignalFilter = "All"
	SignalFilterActive    SignalFilter = "Active"
	SignalFilterLast7Days SignalFilter = "Last 7 Days"
	SignalFilterFavorites SignalFilter = "Favorites"
)

// ParseSignalFilter accepts the display names plus lowercase query aliases
func ParseSignalFilter(value string) (SignalFilter, error) {
	switch value {
	case "", "all", string(SignalFilterAll):
		return SignalFilterAll, nil
	case "active", string(SignalFilterActive):
		return SignalFilterActive, nil
	case "last7days", "week", string(SignalFilterLast7Days):
		return SignalFilterLast7Days, nil
	case "favorites", string(SignalFilterFavorites):
		return SignalFilterFavorites, nil
	default:
		return "", fmt.Errorf("unknown signal filter %q", value)
	}
}
