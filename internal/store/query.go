package store

import "strings"

// SearchTerms splits a title search into its whitespace-separated terms.
func SearchTerms(search string) []string {
	return strings.Fields(search)
}

// LikePattern turns a search term into a substring LIKE pattern using '\' as the escape character.
func LikePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
