package model

// NBA team name to abbreviation mapping used by the defensive ratings table.
var nbaTeamAbbreviations = map[string]string{
	"Atlanta Hawks":          "ATL",
	"Boston Celtics":         "BOS",
	"Brooklyn Nets":          "BKN",
	"Charlotte Hornets":      "CHA",
	"Chicago Bulls":          "CHI",
	"Cleveland Cavaliers":    "CLE",
	"Dallas Mavericks":       "DAL",
	"Denver Nuggets":         "DEN",
	"Detroit Pistons":        "DET",
	"Golden State Warriors":  "GSW",
	"Houston Rockets":        "HOU",
	"Indiana Pacers":         "IND",
	"LA Clippers":            "LAC",
	"Los Angeles Clippers":   "LAC",
	"Los Angeles Lakers":     "LAL",
	"Memphis Grizzlies":      "MEM",
	"Miami Heat":             "MIA",
	"Milwaukee Bucks":        "MIL",
	"Minnesota Timberwolves": "MIN",
	"New Orleans Pelicans":   "NOP",
	"New York Knicks":        "NYK",
	"Oklahoma City Thunder":  "OKC",
	"Orlando Magic":          "ORL",
	"Philadelphia 76ers":     "PHI",
	"Phoenix Suns":           "PHX",
	"Portland Trail Blazers": "POR",
	"Sacramento Kings":       "SAC",
	"San Antonio Spurs":      "SAS",
	"Toronto Raptors":        "TOR",
	"Utah Jazz":              "UTA",
	"Washington Wizards":     "WAS",
}

var nbaAbbreviationToName = map[string]string{}

func init() {
	for name, abbr := range nbaTeamAbbreviations {
		if _, ok := nbaAbbreviationToName[abbr]; ok && name == "LA Clippers" {
			continue
		}
		nbaAbbreviationToName[abbr] = name
	}
}

// TeamAbbreviation returns the abbreviation for a full team name, or the
// input unchanged when it is already a code or unknown.
func TeamAbbreviation(fullName string) string {
	if abbr, ok := nbaTeamAbbreviations[fullName]; ok {
		return abbr
	}
	return fullName
}

// TeamName returns the full name for an abbreviation.
func TeamName(abbr string) string {
	if name, ok := nbaAbbreviationToName[abbr]; ok {
		return name
	}
	return abbr
}
