package chains

// ValidChains returns the list of supported chain slugs
func ValidChains() []string {
	return []string{
		"ica",
		"coop",
		"willys",
		"hemkop",
		"city-gross",
		"lidl",
	}
}

// IsValidChain checks if a chain slug is valid
func IsValidChain(chainID string) bool {
	validChains := make(map[string]bool, len(ValidChains()))
	for _, c := range ValidChains() {
		validChains[c] = true
	}
	return validChains[chainID]
}

// Label returns the display name for a chain slug. Unknown slugs are
// returned unchanged.
func Label(chainID string) string {
	switch chainID {
	case "ica":
		return "ICA"
	case "coop":
		return "Coop"
	case "willys":
		return "Willys"
	case "hemkop":
		return "Hemköp"
	case "city-gross":
		return "City Gross"
	case "lidl":
		return "Lidl"
	default:
		return chainID
	}
}

// MembershipTag returns the tag used in shopping list requests to
// claim membership in a chain's loyalty program.
func MembershipTag(chainID string) string {
	switch chainID {
	case "ica":
		return "ICA"
	case "coop":
		return "COOP"
	case "willys":
		return "WILLYS"
	case "hemkop":
		return "HEMKOP"
	case "city-gross":
		return "CITY_GROSS"
	case "lidl":
		return "LIDL"
	default:
		return chainID
	}
}
