package datasource

import (
	"strings"

	"github.com/yourusername/touchline/internal/models"
)

// DefaultOddsProvider is used when a provider has no closing-line mapping
const DefaultOddsProvider = "bet365"

// Season years where the odds columns change
const (
	lastLadbrokesSeason = 2001
	lastOpeningSeason   = 2018
)

var closingOdds = map[string]models.OddsColumns{
	"bet365":       {Home: "B365CH", Draw: "B365CD", Away: "B365CA"},
	"pinnacle":     {Home: "PSCH", Draw: "PSCD", Away: "PSCA"},
	"william_hill": {Home: "WHCH", Draw: "WHCD", Away: "WHCA"},
	"vc_bet":       {Home: "VCCH", Draw: "VCCD", Away: "VCCA"},
	"1xbet":        {Home: "1XBCH", Draw: "1XBCD", Away: "1XBCA"},
}

// OddsColumnsFor returns the price columns to read for season and provider.
// Seasons up to 2001 carry Ladbrokes prices and 2002-2018 carry Bet365 prices
// regardless of provider. Later seasons use the provider's closing line,
// falling back to Bet365 closing for unknown providers.
func OddsColumnsFor(season int, provider string) models.OddsColumns {
	switch {
	case season <= lastLadbrokesSeason:
		return models.OddsColumns{Home: "LBH", Draw: "LBD", Away: "LBA"}
	case season <= lastOpeningSeason:
		return models.OddsColumns{Home: "B365H", Draw: "B365D", Away: "B365A"}
	}
	if cols, ok := closingOdds[strings.ToLower(provider)]; ok {
		return cols
	}
	return closingOdds[DefaultOddsProvider]
}

// IsKnownProvider reports whether provider has a closing-line mapping
func IsKnownProvider(provider string) bool {
	_, ok := closingOdds[strings.ToLower(provider)]
	return ok
}
