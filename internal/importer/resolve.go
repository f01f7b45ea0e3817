package importer

import (
	"fmt"
	"strings"

	"github.com/brightclass/roster/internal/app/models"
)

// Row rejection reasons. These surface verbatim in the error report, so the
// wording is part of the operator-facing contract.
const (
	ReasonMissingRequired    = "Missing required fields"
	ReasonMissingClassGroup  = "Missing class group"
	ReasonMissingTerm        = "Missing term"
	ReasonDuplicateAdmission = "Duplicate admission in file"
	ReasonGroupMismatch      = "Class group does not match class year/arm"
)

// Lookup labels as they appear in rejection reasons
const (
	labelClassGroup = "class group"
	labelClassYear  = "class year"
	labelClassArm   = "class arm"
	labelSession    = "session"
	labelTerm       = "term"
)

func unknownReason(label, value string) string {
	return fmt.Sprintf("Unknown %s: %s", label, value)
}

func ambiguousReason(label, value string) string {
	return fmt.Sprintf("Ambiguous %s: %s", label, value)
}

// ResolvedRow is a fully validated data row: every reference resolved to a
// stable ID, contact identifiers normalized.
type ResolvedRow struct {
	AdmissionNo string
	FirstName   string
	LastName    string

	ParentName  string
	ParentPhone string
	ParentEmail string

	ClassGroupID string
	SessionID    string
	TermID       string
}

// ResolveRow validates one data row against the tenant's reference bundle.
// All applicable errors are accumulated before the row is rejected, so the
// error report names everything wrong with a row at once. A row with any
// error produces no resolved value.
func ResolveRow(bundle *ReferenceBundle, header HeaderMap, row Row) (*ResolvedRow, []string) {
	var errs []string

	resolved := &ResolvedRow{
		AdmissionNo: header.Value(row, FieldAdmissionNo),
		FirstName:   header.Value(row, FieldFirstName),
		LastName:    header.Value(row, FieldLastName),
		ParentName:  header.Value(row, FieldParentName),
		ParentPhone: NormalizePhone(header.Value(row, FieldParentPhone)),
		ParentEmail: NormalizeEmail(header.Value(row, FieldParentEmail)),
	}

	if resolved.AdmissionNo == "" || resolved.FirstName == "" || resolved.LastName == "" ||
		(resolved.ParentPhone == "" && resolved.ParentEmail == "") {
		errs = append(errs, ReasonMissingRequired)
	}

	yearID := resolveClassYear(bundle, header, row, &errs)
	armID := resolveClassArm(bundle, header, row, &errs)
	group := resolveClassGroup(bundle, header, row, yearID, armID, &errs)

	// A group resolved by ID or name must agree with an independently
	// resolved year/arm
	if group != nil {
		if yearID != "" && group.ClassYearID != yearID {
			errs = append(errs, ReasonGroupMismatch)
		} else if armID != "" && group.ClassArmID != armID {
			errs = append(errs, ReasonGroupMismatch)
		}
	}

	session := resolveSession(bundle, header, row, &errs)
	term := resolveTerm(bundle, header, row, session, &errs)

	if len(errs) > 0 {
		return nil, errs
	}

	resolved.ClassGroupID = group.ID
	resolved.TermID = term.ID
	// The term's parent session keeps the enrollment internally consistent
	// even when the session was derived rather than spelled out
	resolved.SessionID = term.SessionID

	return resolved, nil
}

func resolveClassYear(bundle *ReferenceBundle, header HeaderMap, row Row, errs *[]string) string {
	if id := header.Value(row, FieldClassYearID); id != "" {
		if _, ok := bundle.YearsByID[id]; !ok {
			*errs = append(*errs, unknownReason(labelClassYear, id))
			return ""
		}
		return id
	}

	name := header.Value(row, FieldClassYear)
	if name == "" {
		return ""
	}

	matches := bundle.YearsByName[normalizeName(name)]
	switch len(matches) {
	case 0:
		*errs = append(*errs, unknownReason(labelClassYear, name))
		return ""
	case 1:
		return matches[0].ID
	default:
		*errs = append(*errs, ambiguousReason(labelClassYear, name))
		return ""
	}
}

func resolveClassArm(bundle *ReferenceBundle, header HeaderMap, row Row, errs *[]string) string {
	if id := header.Value(row, FieldClassArmID); id != "" {
		if _, ok := bundle.ArmsByID[id]; !ok {
			*errs = append(*errs, unknownReason(labelClassArm, id))
			return ""
		}
		return id
	}

	name := header.Value(row, FieldClassArm)
	if name == "" {
		return ""
	}

	matches := bundle.ArmsByName[normalizeName(name)]
	switch len(matches) {
	case 0:
		*errs = append(*errs, unknownReason(labelClassArm, name))
		return ""
	case 1:
		return matches[0].ID
	default:
		*errs = append(*errs, ambiguousReason(labelClassArm, name))
		return ""
	}
}

func resolveClassGroup(bundle *ReferenceBundle, header HeaderMap, row Row, yearID, armID string, errs *[]string) *models.ClassGroup {
	if id := header.Value(row, FieldClassGroupID); id != "" {
		group, ok := bundle.GroupsByID[id]
		if !ok {
			*errs = append(*errs, unknownReason(labelClassGroup, id))
			return nil
		}
		return group
	}

	if name := header.Value(row, FieldClassGroup); name != "" {
		matches := bundle.GroupsByName[normalizeName(name)]
		switch len(matches) {
		case 0:
			*errs = append(*errs, unknownReason(labelClassGroup, name))
			return nil
		case 1:
			return matches[0]
		default:
			*errs = append(*errs, ambiguousReason(labelClassGroup, name))
			return nil
		}
	}

	// No direct group: combine the resolved year and arm. Groups without
	// an arm match year-only rows.
	if yearID == "" {
		*errs = append(*errs, ReasonMissingClassGroup)
		return nil
	}

	var matches []*models.ClassGroup
	for _, group := range bundle.Groups {
		if group.ClassYearID != yearID {
			continue
		}
		if group.ClassArmID == armID {
			matches = append(matches, group)
		}
	}

	value := strings.TrimSpace(header.Value(row, FieldClassYear) + " " + header.Value(row, FieldClassArm))
	switch len(matches) {
	case 0:
		*errs = append(*errs, unknownReason(labelClassGroup, value))
		return nil
	case 1:
		return matches[0]
	default:
		*errs = append(*errs, ambiguousReason(labelClassGroup, value))
		return nil
	}
}

func resolveSession(bundle *ReferenceBundle, header HeaderMap, row Row, errs *[]string) *models.Session {
	if id := header.Value(row, FieldSessionID); id != "" {
		session, ok := bundle.SessionsByID[id]
		if !ok {
			*errs = append(*errs, unknownReason(labelSession, id))
			return nil
		}
		return session
	}

	name := header.Value(row, FieldSession)
	if name == "" {
		// A school with a single session needs no session column; otherwise
		// the term lookup may still disambiguate
		if len(bundle.Sessions) == 1 {
			return bundle.Sessions[0]
		}
		return nil
	}

	matches := bundle.SessionsByName[normalizeName(name)]
	switch len(matches) {
	case 0:
		*errs = append(*errs, unknownReason(labelSession, name))
		return nil
	case 1:
		return matches[0]
	default:
		*errs = append(*errs, ambiguousReason(labelSession, name))
		return nil
	}
}

func resolveTerm(bundle *ReferenceBundle, header HeaderMap, row Row, session *models.Session, errs *[]string) *models.Term {
	if id := header.Value(row, FieldTermID); id != "" {
		term, ok := bundle.TermsByID[id]
		if !ok {
			*errs = append(*errs, unknownReason(labelTerm, id))
			return nil
		}
		return term
	}

	name := header.Value(row, FieldTerm)
	if name == "" {
		// Default to the school's sole term when the file carries none
		scope := bundle.Terms
		if session != nil {
			scope = bundle.TermsBySession[session.ID]
		}
		if len(scope) == 1 {
			return scope[0]
		}
		*errs = append(*errs, ReasonMissingTerm)
		return nil
	}

	key := normalizeName(name)

	// Scope the lookup to the session when one is known
	if session != nil {
		var matches []*models.Term
		for _, term := range bundle.TermsBySession[session.ID] {
			if normalizeName(term.Name) == key {
				matches = append(matches, term)
			}
		}
		switch len(matches) {
		case 0:
			*errs = append(*errs, unknownReason(labelTerm, name))
			return nil
		case 1:
			return matches[0]
		default:
			*errs = append(*errs, ambiguousReason(labelTerm, name))
			return nil
		}
	}

	// No session: scan every loaded term, and point the operator at the
	// session column when the name is not unique
	var matches []*models.Term
	for _, term := range bundle.Terms {
		if normalizeName(term.Name) == key {
			matches = append(matches, term)
		}
	}
	switch len(matches) {
	case 0:
		*errs = append(*errs, unknownReason(labelTerm, name))
		return nil
	case 1:
		return matches[0]
	default:
		*errs = append(*errs, fmt.Sprintf("Ambiguous %s: %s (add session to disambiguate)", labelTerm, name))
		return nil
	}
}
