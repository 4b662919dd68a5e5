package datasource

import "sort"

// football-data.co.uk division codes for the supported leagues
var leagueDivisions = map[string]string{
	"premier_league": "E0",
	"laliga_1":       "SP1",
	"le_championnat": "F1",
	"serie_a":        "I1",
	"bundesliga_1":   "D1",
}

// SupportedLeagues returns the league identifiers with a data layout, sorted
func SupportedLeagues() []string {
	leagues := make([]string, 0, len(leagueDivisions))
	for league := range leagueDivisions {
		leagues = append(leagues, league)
	}
	sort.Strings(leagues)
	return leagues
}

// IsSupportedLeague reports whether league has a data layout
func IsSupportedLeague(league string) bool {
	_, ok := leagueDivisions[league]
	return ok
}

// Division returns the football-data division code for league
func Division(league string) (string, bool) {
	code, ok := leagueDivisions[league]
	return code, ok
}

// fixture feeds spell some clubs differently from the results files
var teamNameAliases = map[string]string{
	// La Liga
	"Girona FC":                 "Girona",
	"Villarreal CF":             "Villarreal",
	"RCD Mallorca":              "Mallorca",
	"Deportivo Alavés":          "Alaves",
	"Valencia CF":               "Valencia",
	"Athletic Club":             "Ath Bilbao",
	"RCD Espanyol de Barcelona": "Espanol",
	"Elche CF":                  "Elche",
	"FC Barcelona":              "Barcelona",
	"Atlético de Madrid":        "Ath Madrid",
	"Sevilla FC":                "Sevilla",
	"Real Sociedad":             "Sociedad",
	"CA Osasuna":                "Osasuna",
	"Real Betis":                "Betis",
	"Rayo Vallecano":            "Vallecano",
	"Levante UD":                "Levante",
	"Real Oviedo":               "Oviedo",
	"Hellas Verona":             "Verona",
	// Ligue 1
	"Angers SCO":             "Angers",
	"AJ Auxerre":             "Auxerre",
	"Stade Brestois 29":      "Brest",
	"RC Lens":                "Lens",
	"FC Metz":                "Metz",
	"AS Monaco":              "Monaco",
	"FC Nantes":              "Nantes",
	"OGC Nice":               "Nice",
	"Stade Rennais FC":       "Rennes",
	"Havre Athletic Club":    "Le Havre",
	"Paris Saint-Germain":    "Paris SG",
	"Olympique Lyonnais":     "Lyon",
	"LOSC Lille":             "Lille",
	"FC Lorient":             "Lorient",
	"RC Strasbourg Alsace":   "Strasbourg",
	"Olympique de Marseille": "Marseille",
	"Toulouse FC":            "Toulouse",
}

// NormalizeTeamName maps a fixture-feed club name onto the results-file spelling
func NormalizeTeamName(name string) string {
	if alias, ok := teamNameAliases[name]; ok {
		return alias
	}
	return name
}
