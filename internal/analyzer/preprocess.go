package analyzer

import (
	"strings"
	"unicode"
)

// stopWords is a compact English stop list used before scoring
var stopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`a about above across after afterwards again against all almost alone
along already also although always am among amongst an and another any anyhow anyone anything
anyway anywhere are around as at be became because become becomes becoming been before beforehand
behind being below beside besides between beyond both but by can cannot could did do does doing done
down due during each either else elsewhere enough etc even ever every everyone everything everywhere
except few for former formerly from further had has have having he hence her here hereafter hereby
herein hers herself him himself his how however i if in indeed into is it its itself just keep last
latter latterly least less made make many may me meanwhile might mine more moreover most mostly much
must my myself namely neither never nevertheless next no nobody none noone nor not nothing now nowhere
of off often on once one only onto or other others otherwise our ours ourselves out over own part per
perhaps please put quite rather re really regarding same say see seem seemed seeming seems serious
several she should show side since so some somehow someone something sometime sometimes somewhere
still such take than that the their them themselves then thence there thereafter thereby therefore
therein thereupon these they this those though through throughout thru thus to together too toward
towards under unless until up upon us used using various very via was we well were what whatever when
whence whenever where whereafter whereas whereby wherein whereupon wherever whether which while whither
who whoever whole whom whose why will with within without would yet you your yours yourself yourselves`) {
		stopWords[w] = true
	}
}

// Tokenize lowercases text and splits it into tokens. The characters + # . / -
// never split a token, so "c++", "c#", "node.js" and "ci/cd" stay whole.
// Preprocess trims the dots, dashes and slashes left at token edges.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		switch r {
		case '+', '#', '.', '/', '-':
			return false
		}
		return true
	})
}

// Preprocess drops stop words and punctuation-only tokens and rejoins the rest
func Preprocess(text string) string {
	tokens := Tokenize(text)
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.Trim(token, ".-/")
		if token == "" || stopWords[token] || !hasAlnum(token) {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
