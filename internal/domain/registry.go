package domain

import "fmt"

// gameOrder fixes the iteration order for multi-game runs.
var gameOrder = []GameID{
	GameHonkaiStarRail,
	GameGenshinImpact,
	GameZenlessZoneZero,
	GameHonkaiImpact3rd,
}

var games = map[GameID]GameSpec{
	GameHonkaiStarRail: {
		ID:              GameHonkaiStarRail,
		Name:            "Honkai: Star Rail",
		ShortName:       "HSR",
		ActID:           "e202303301540311",
		GameBiz:         "hkrpg_global",
		CheckinURL:      "https://act.hoyolab.com/bbs/event/signin/hkrpg/index.html",
		PrimaryEndpoint: "https://sg-public-api.hoyolab.com",
		FallbackEndpoints: []string{
			"https://sg-hk4e-api.hoyolab.com",
			"https://api-os-takumi.mihoyo.com",
		},
		SignPath: "/event/luna/sign",
		InfoPath: "/event/luna/info",
	},
	GameGenshinImpact: {
		ID:              GameGenshinImpact,
		Name:            "Genshin Impact",
		ShortName:       "GI",
		ActID:           "e202102251931481",
		GameBiz:         "hk4e_global",
		CheckinURL:      "https://act.hoyolab.com/ys/event/signin-sea-v3/index.html",
		PrimaryEndpoint: "https://sg-hk4e-api.hoyoverse.com",
		FallbackEndpoints: []string{
			"https://sg-hk4e-api.hoyolab.com",
			"https://hk4e-api-os.hoyoverse.com",
		},
		SignPath: "/event/sol/sign",
		InfoPath: "/event/sol/info",
	},
	GameZenlessZoneZero: {
		ID:              GameZenlessZoneZero,
		Name:            "Zenless Zone Zero",
		ShortName:       "ZZZ",
		ActID:           "e202406031448091",
		GameBiz:         "nap_global",
		CheckinURL:      "https://act.hoyolab.com/bbs/event/signin/zzz/index.html",
		PrimaryEndpoint: "https://sg-act-nap-api.hoyolab.com",
		FallbackEndpoints: []string{
			"https://sg-public-api.hoyolab.com",
			"https://api-os-takumi.mihoyo.com",
		},
		SignPath: "/event/luna/zzz/sign",
		InfoPath: "/event/luna/zzz/info",
	},
	GameHonkaiImpact3rd: {
		ID:              GameHonkaiImpact3rd,
		Name:            "Honkai Impact 3rd",
		ShortName:       "HI3",
		ActID:           "e202110291205111",
		GameBiz:         "bh3_global",
		CheckinURL:      "https://act.hoyolab.com/bbs/event/signin-bh3/index.html",
		PrimaryEndpoint: "https://sg-public-api.hoyolab.com",
		FallbackEndpoints: []string{
			"https://api-os-takumi.mihoyo.com",
			"https://sg-hk4e-api.hoyolab.com",
		},
		SignPath: "/event/mani/sign",
		InfoPath: "/event/mani/info",
	},
}

// Resolve returns the spec for a supported game id.
func Resolve(id GameID) (GameSpec, error) {
	spec, ok := games[id]
	if !ok {
		return GameSpec{}, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	return spec, nil
}

// AllGames returns every supported spec in registry order.
func AllGames() []GameSpec {
	specs := make([]GameSpec, 0, len(gameOrder))
	for _, id := range gameOrder {
		specs = append(specs, games[id])
	}
	return specs
}

// GameIDs returns the supported ids in registry order.
func GameIDs() []GameID {
	ids := make([]GameID, len(gameOrder))
	copy(ids, gameOrder)
	return ids
}
