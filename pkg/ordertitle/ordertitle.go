// Package ordertitle turns display titles into the keys encyclopedia listings
// are sorted by. People are filed under their surname ("Fred Bloggs" becomes
// "Bloggs, Fred") and other titles lose a leading article or apostrophe
// ("The Royal Prince" becomes "Royal Prince, The").
//
// Every function here is pure. When a title can't be reordered confidently
// the input comes back as it was, flagged as not reordered.
package ordertitle

import (
	"regexp"
	"strings"
)

// Result is the outcome of computing an order title.
type Result struct {
	// Text is the order title. It equals the input when Reordered is false.
	Text string
	// Reordered is false when no rule applied and the input passed through.
	Reordered bool
}

func unchanged(text string) Result {
	return Result{Text: text}
}

func reordered(text string) Result {
	return Result{Text: text, Reordered: true}
}

var (
	// parentheticalRE splits a trailing "(...)" qualifier off a name.
	parentheticalRE = regexp.MustCompile(`^(.*?)\s?(\(.*?\))?$`)

	// nameRE splits a name into an optional honorific, a single first name and
	// whatever follows. An honorific only counts when another token follows it.
	nameRE = regexp.MustCompile(`^(?:(` + honorifics + `)\s+)?(\S+)(?:\s+(.*))?$`)

	// monarchRE catches "Mary I of England", "Philip IV" and "Ivan the Terrible",
	// whose second token isn't a surname.
	monarchRE = regexp.MustCompile(`^(?:I|II|III|IV|V|VI|VII|VIII|IX|X|XI|XII|XIII|XIV|XV|the)(?:\s|$)`)

	// particleRE finds the first word-initial "d'", "l'" or "al-" and any
	// words before it.
	particleRE = regexp.MustCompile(`^(?:(.*?)\s+)??(d'|l'|al-)(.+)$`)

	// leadingTheRE matches "The Alchemist" and "The Alchemist (Ben Jonson)".
	leadingTheRE = regexp.MustCompile(`^The\s(.*?)(?:\s\((.*?)\))?$`)
)

// honorifics are the ranks and courtesy titles kept in front of the first
// name. Order matters where one alternative is a prefix of another.
const honorifics = `Ald\.|Capt\.|Col\.|Don|Dr\.?|Lady|Lieut\.|Lord|Lt-Adm\.|Lt-Col\.|Lt-Gen\.|` +
	`Maj\.(?:-Gen\.)?(?:\sAld\.)?(?:\sSir)?|Miss|Mrs?\.?|Ms|Pope|Sir`

// Make returns the order title for text. isPerson selects surname-first
// reordering; otherwise leading articles are moved or dropped.
func Make(text string, isPerson bool) string {
	if isPerson {
		return ForPerson(text).Text
	}
	return ForTitle(text).Text
}

// nameParts is a person's name broken into the pieces the reordering works on.
type nameParts struct {
	title         string
	first         string
	rest          string
	parenthetical string
}

// splitName breaks text into nameParts. ok is false when text doesn't look
// like a name at all.
func splitName(text string) (nameParts, bool) {
	var parts nameParts

	m := parentheticalRE.FindStringSubmatch(text)
	if m == nil {
		return parts, false
	}
	name := m[1]
	parts.parenthetical = m[2]

	m = nameRE.FindStringSubmatch(name)
	if m == nil {
		return parts, false
	}
	parts.title = m[1]
	parts.first = m[2]
	parts.rest = strings.TrimSpace(m[3])

	return parts, true
}

// ForPerson files a person's name under their surname.
//
// Examples:
//   - "Fred Bloggs" -> "Bloggs, Fred"
//   - "Capt. Henry Terne" -> "Terne, Capt. Henry"
//   - "Mr Hazard" -> "Hazard, Mr"
//   - "Monsieur d'Esquier" -> "Esquier, Monsieur d'"
//   - "Jan de Witt (Grand Pensionary of Holland)" -> "Witt, Jan de (Grand Pensionary of Holland)"
//   - "Philip IV (King of Spain, 1621-1665)" -> unchanged
func ForPerson(text string) Result {
	if text == "" {
		return unchanged(text)
	}

	parts, ok := splitName(text)
	if !ok {
		return unchanged(text)
	}

	if monarchRE.MatchString(parts.rest) {
		return unchanged(text)
	}

	if parts.rest == "" {
		// "Shelston" has nothing to reorder, "Mr Hazard" does.
		if parts.title == "" {
			return unchanged(text)
		}
		return reordered(withParenthetical(parts.first+", "+parts.title, parts.parenthetical))
	}

	// "John (the elder) Smith" and "Godefroy, Comte d'Estrades" are left
	// alone rather than guessed at.
	if strings.HasPrefix(parts.rest, "(") || strings.HasSuffix(parts.first, ",") {
		return unchanged(text)
	}

	given := []string{parts.title, parts.first}
	rest := parts.rest

	if m := particleRE.FindStringSubmatch(rest); m != nil {
		// "Pierre d'Esquier" files under "Esquier" with "Pierre d'" kept
		// with the given names.
		given = append(given, strings.Fields(m[1])...)
		given = append(given, m[2])
		rest = m[3]
	}

	words := strings.Fields(rest)
	surname := words[len(words)-1]
	if isParticle(surname) {
		// "Jean d'" has no surname to file under.
		return unchanged(text)
	}
	given = append(given, words[:len(words)-1]...)

	return reordered(withParenthetical(surname+", "+joinWords(given...), parts.parenthetical))
}

// ForTitle moves a leading "The" to the end of a title and drops a leading
// apostrophe.
//
// Examples:
//   - "The Royal Prince" -> "Royal Prince, The"
//   - "The Alchemist (Ben Jonson)" -> "Alchemist, The (Ben Jonson)"
//   - "'A dialogue concerning...'" -> "A dialogue concerning...'"
func ForTitle(text string) Result {
	if text == "" {
		return unchanged(text)
	}

	if idx := leadingTheRE.FindStringSubmatchIndex(text); idx != nil {
		rest := text[idx[2]:idx[3]]
		if rest == "" {
			return unchanged(text)
		}
		if idx[4] < 0 {
			return reordered(rest + ", The")
		}
		return reordered(rest + ", The (" + text[idx[4]:idx[5]] + ")")
	}

	if len(text) > 1 && strings.HasPrefix(text, "'") {
		return reordered(text[1:])
	}

	return unchanged(text)
}

func isParticle(word string) bool {
	return word == "d'" || word == "l'" || word == "al-"
}

// joinWords joins the non-empty words with single spaces.
func joinWords(words ...string) string {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func withParenthetical(s, parenthetical string) string {
	if parenthetical == "" {
		return s
	}
	return s + " " + parenthetical
}
