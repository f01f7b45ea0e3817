package importer

import "strings"

// Canonical field names a CSV column can map to
const (
	FieldAdmissionNo = "admissionNo"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldParentPhone = "parentPhone"
	FieldParentEmail = "parentEmail"
	FieldParentName  = "parentName"
	FieldClassGroup  = "classGroup"
	FieldClassYear   = "classYear"
	FieldClassArm    = "classArm"
	FieldTerm        = "term"
	FieldSession     = "session"

	// ID-override variants for callers exporting straight from the admin UI
	FieldClassGroupID = "classGroupId"
	FieldClassYearID  = "classYearId"
	FieldClassArmID   = "classArmId"
	FieldTermID       = "termId"
	FieldSessionID    = "sessionId"
)

// fieldAliases maps each canonical field to the spellings seen in the wild.
// The canonical name itself always matches; matching is case and
// punctuation insensitive on both sides.
var fieldAliases = map[string][]string{
	FieldAdmissionNo: {"admission no", "admission number", "adm no", "reg no", "registration no", "student id"},
	FieldFirstName:   {"first name", "given name", "firstname"},
	FieldLastName:    {"last name", "surname", "family name", "lastname"},
	FieldParentPhone: {"parent phone", "guardian phone", "parent phone number", "phone"},
	FieldParentEmail: {"parent email", "guardian email", "email"},
	FieldParentName:  {"parent name", "guardian name", "parent guardian name"},
	FieldClassGroup:  {"class", "class group", "class name"},
	FieldClassYear:   {"class year", "year", "level"},
	FieldClassArm:    {"class arm", "arm", "stream"},
	FieldTerm:        {"term", "term name"},
	FieldSession:     {"session", "academic session", "school year"},

	FieldClassGroupID: {"class group id"},
	FieldClassYearID:  {"class year id"},
	FieldClassArmID:   {"class arm id"},
	FieldTermID:       {"term id"},
	FieldSessionID:    {"session id"},
}

// HeaderMap maps canonical field names to column positions in a parsed file.
// Fields whose column is absent map to -1.
type HeaderMap map[string]int

// ResolveHeader builds a HeaderMap from the file's header row. Built once
// per file.
func ResolveHeader(header []string) HeaderMap {
	byKey := make(map[string]int, len(header))
	for i, col := range header {
		key := normalizeHeaderKey(col)
		if key == "" {
			continue
		}
		// First occurrence wins on duplicate headers
		if _, seen := byKey[key]; !seen {
			byKey[key] = i
		}
	}

	resolved := make(HeaderMap, len(fieldAliases))
	for field, aliases := range fieldAliases {
		resolved[field] = -1
		if pos, ok := byKey[normalizeHeaderKey(field)]; ok {
			resolved[field] = pos
			continue
		}
		for _, alias := range aliases {
			if pos, ok := byKey[normalizeHeaderKey(alias)]; ok {
				resolved[field] = pos
				break
			}
		}
	}

	return resolved
}

// Value returns the trimmed cell for a canonical field, or "" when the
// column is missing from the file or the row is short.
func (h HeaderMap) Value(row Row, field string) string {
	pos, ok := h[field]
	if !ok || pos < 0 || pos >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[pos])
}

// normalizeHeaderKey lowercases and strips everything but letters and digits
func normalizeHeaderKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
