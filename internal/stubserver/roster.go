package stubserver

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Types is the vocabulary served on /api/types.
var Types = []string{"bug", "dragon", "electric", "fairy", "fighting", "fire", "flying", "ghost", "grass", "ground", "ice", "normal", "poison", "psychic", "rock", "steel", "water"}

var roster = map[string][]string{
	"bug":      {"caterpie", "weedle", "butterfree", "beedrill", "scyther"},
	"dragon":   {"dratini", "dragonair", "dragonite"},
	"electric": {"pikachu", "raichu", "magnemite", "voltorb", "electabuzz", "jolteon"},
	"fairy":    {"clefairy", "clefable", "jigglypuff"},
	"fighting": {"mankey", "machop", "machoke", "machamp", "hitmonlee"},
	"fire":     {"charmander", "charmeleon", "charizard", "vulpix", "growlithe", "ponyta"},
	"flying":   {"pidgey", "pidgeotto", "spearow", "zubat", "farfetchd"},
	"ghost":    {"gastly", "haunter", "gengar"},
	"grass":    {"bulbasaur", "ivysaur", "venusaur", "oddish", "bellsprout", "tangela"},
	"ground":   {"sandshrew", "diglett", "cubone", "rhyhorn"},
	"ice":      {"jynx", "lapras", "articuno"},
	"normal":   {"rattata", "meowth", "eevee", "snorlax", "ditto"},
	"poison":   {"ekans", "nidoran", "grimer", "koffing"},
	"psychic":  {"abra", "kadabra", "alakazam", "slowpoke", "mewtwo"},
	"rock":     {"geodude", "onix", "omanyte", "aerodactyl"},
	"steel":    {"magnemite", "magneton"},
	"water":    {"squirtle", "wartortle", "blastoise", "psyduck", "poliwag", "magikarp"},
}

// writeCSV writes the sampled members of a type. A sampleSize of zero means
// all of them.
func writeCSV(w io.Writer, pokemonType string, sampleSize int) error {
	names := roster[strings.ToLower(pokemonType)]
	if sampleSize > 0 && sampleSize < len(names) {
		names = names[:sampleSize]
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "type"}); err != nil {
		return err
	}
	for i, name := range names {
		if err := cw.Write([]string{fmt.Sprint(i + 1), name, pokemonType}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
