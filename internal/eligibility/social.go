package eligibility

// NetworkStatus is the resolved eligibility of one social network.
type NetworkStatus struct {
	Network         Network `json:"network"`
	Provided        bool    `json:"provided"`
	Public          bool    `json:"public"`
	BracketEligible bool    `json:"bracketEligible"`
	Eligible        bool    `json:"eligible"`
}

// ResolveNetwork combines whether the profile was filled in, its visibility
// and its follower bracket. A network that was not provided is never eligible
// and is not checked further.
func ResolveNetwork(n Network, p SocialProfile, brackets BracketTable, requirePublic bool) NetworkStatus {
	status := NetworkStatus{Network: n, Provided: p.Provided()}
	if !status.Provided {
		return status
	}

	status.Public = p.Visibility == VisibilityPublic
	status.BracketEligible = brackets.IsEligible(p.FollowerBracket)
	status.Eligible = status.BracketEligible && (status.Public || !requirePublic)
	return status
}

// VisibilityField is the field key that carries a network's visibility error.
func VisibilityField(n Network) FieldKey {
	return FieldKey(string(n) + "_privado")
}

// FollowersField is the field key that carries a network's follower error.
func FollowersField(n Network) FieldKey {
	return FieldKey(string(n) + "_seguidores")
}
