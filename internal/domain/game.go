package domain

type GameID string

const (
	GameHonkaiStarRail  GameID = "hsr"
	GameGenshinImpact   GameID = "gi"
	GameZenlessZoneZero GameID = "zzz"
	GameHonkaiImpact3rd GameID = "hi3"
)

// GameSpec is the static per-game metadata needed to talk to the HoYoLAB
// sign-in API. Specs are immutable; all requests for a game share one.
type GameSpec struct {
	ID                GameID
	Name              string
	ShortName         string
	ActID             string
	GameBiz           string
	CheckinURL        string
	PrimaryEndpoint   string
	FallbackEndpoints []string
	SignPath          string
	InfoPath          string
}

// Endpoints returns the primary endpoint followed by the fallbacks, in the
// order they should be tried within a single attempt.
func (s GameSpec) Endpoints() []string {
	endpoints := make([]string, 0, 1+len(s.FallbackEndpoints))
	endpoints = append(endpoints, s.PrimaryEndpoint)
	endpoints = append(endpoints, s.FallbackEndpoints...)
	return endpoints
}
