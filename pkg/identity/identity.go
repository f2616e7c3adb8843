// Package identity holds the matching primitives shared by contact
// resolution and reveal authorization: full-name splitting, phone candidate
// key generation, and id-set deduplication.
package identity

import "strings"

// NameParts is the structured form of a submitted full name. Name always
// carries the original string when any token was present; FirstName/LastName
// are only populated for multi-token names.
type NameParts struct {
	FirstName string
	LastName  string
	Name      string
}

// SplitFullName splits a whitespace-delimited full name. A single token
// stays unsplit in Name; two or more tokens become first token / remaining
// tokens rejoined, with Name keeping the original string.
func SplitFullName(s string) NameParts {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return NameParts{}
	}
	tokens := strings.Fields(trimmed)
	if len(tokens) == 1 {
		return NameParts{Name: s}
	}
	return NameParts{
		FirstName: tokens[0],
		LastName:  strings.Join(tokens[1:], " "),
		Name:      s,
	}
}

// PhoneCandidateKeys expands a raw phone number into the search keys tried
// against the registry: the trimmed input, its digits, and the last-10 and
// last-7 digit suffixes when the number is long enough. Requiring a genuine
// digit-suffix match (not a substring match) avoids false positives on short
// shared prefixes like area codes. Duplicates and empties are dropped,
// first-occurrence order is kept.
func PhoneCandidateKeys(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	d := Digits(trimmed)

	keys := []string{trimmed, d}
	if len(d) >= 10 {
		keys = append(keys, d[len(d)-10:])
	}
	if len(d) >= 7 {
		keys = append(keys, d[len(d)-7:])
	}
	return DedupeIDs(keys)
}

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DedupeIDs drops empty values and exact duplicates, preserving
// first-occurrence order. No trimming or case folding: association ids are
// opaque strings and must round-trip byte for byte.
func DedupeIDs(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	return result
}
