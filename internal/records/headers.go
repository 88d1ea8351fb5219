// internal/records/headers.go
package records

import "strings"

// fieldLabels holds the expected header text per canonical field. Matching
// is against the normalized form, so case, spacing and punctuation in the
// actual sheet do not matter.
var fieldLabels = map[Field][]string{
	FieldHandle:          {"handle"},
	FieldLinkedAccountID: {"linked account id", "discord id", "account id"},
	FieldStatus:          {"status", "application status"},
	FieldPaymentStatus:   {"payment status", "payment"},
	FieldNextSteps:       {"next steps"},
	FieldStaffNotes:      {"staff notes", "notes"},
	FieldLastUpdated:     {"last updated", "updated"},
	FieldPositions:       {"positions", "positions of interest", "roles of interest"},
	FieldSignature:       {"signature", "parent signature"},
}

// handleSynonyms covers the header spellings application forms have used
// for the handle column over time.
var handleSynonyms = []string{
	"discord handle",
	"discord name",
	"discord username",
	"username",
	"character name",
	"applicant name",
}

// normalizeHeader lowercases and strips spaces and punctuation so header
// comparison ignores formatting.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveHeader maps a canonical field to its column index in the store's
// header row, or -1 if no header matches. Strategies run in order: exact
// normalized match, then the handle synonym table, then substring
// containment. The first hit wins.
func ResolveHeader(headers []string, field Field) int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	labels := fieldLabels[field]
	if len(labels) == 0 {
		labels = []string{string(field)}
	}

	// Exact normalized match
	for _, label := range labels {
		want := normalizeHeader(label)
		for i, h := range normalized {
			if h == want {
				return i
			}
		}
	}

	// Synonym table, handle only
	if field == FieldHandle {
		for _, syn := range handleSynonyms {
			want := normalizeHeader(syn)
			for i, h := range normalized {
				if h == want {
					return i
				}
			}
		}
	}

	// Substring containment, last resort. One direction only: a header
	// that merely appears inside a longer label ("status" in "payment
	// status") must not claim that label's column.
	for _, label := range labels {
		want := normalizeHeader(label)
		if want == "" {
			continue
		}
		for i, h := range normalized {
			if h == "" {
				continue
			}
			if strings.Contains(h, want) {
				return i
			}
		}
	}

	return -1
}

// columnLetter converts a 0-based column index to its A1 column label.
func columnLetter(index int) string {
	letters := ""
	index++
	for index > 0 {
		index--
		letters = string(rune('A'+index%26)) + letters
		index /= 26
	}
	return letters
}
