package layout

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MonthNamer renders a human-readable label for a month. Labels are used as
// folder names and must never be blank or numeric-only.
type MonthNamer func(month time.Month) string

var spanishMonths = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var englishMonths = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var monthTables = map[language.Tag][12]string{
	language.Spanish: spanishMonths,
	language.English: englishMonths,
}

var monthMatcher = language.NewMatcher([]language.Tag{
	language.Spanish,
	language.English,
})

// NamerFor returns the month namer for a BCP 47 language tag. Unknown or
// unparseable tags deterministically fall back to the Spanish table.
func NamerFor(lang string) MonthNamer {
	table := spanishMonths
	titleTag := language.Spanish

	if tag, err := language.Parse(lang); err == nil {
		matched, _, confidence := monthMatcher.Match(tag)
		if confidence > language.No {
			base, _ := matched.Base()
			for candidate, months := range monthTables {
				if cb, _ := candidate.Base(); cb == base {
					table = months
					titleTag = candidate
					break
				}
			}
		}
	}

	caser := cases.Title(titleTag)
	return func(month time.Month) string {
		return caser.String(table[month-1])
	}
}
