package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/importer"
)

const testSchoolID = "11111111-1111-1111-1111-111111111111"

type fakeReferenceSource struct {
	years    []*models.ClassYear
	arms     []*models.ClassArm
	groups   []*models.ClassGroup
	sessions []*models.Session
	terms    map[string][]*models.Term

	loads int
}

func (f *fakeReferenceSource) ListClassYears(ctx context.Context, schoolID string) ([]*models.ClassYear, error) {
	f.loads++
	return f.years, nil
}

func (f *fakeReferenceSource) ListClassArms(ctx context.Context, schoolID string) ([]*models.ClassArm, error) {
	return f.arms, nil
}

func (f *fakeReferenceSource) ListClassGroups(ctx context.Context, schoolID string) ([]*models.ClassGroup, error) {
	return f.groups, nil
}

func (f *fakeReferenceSource) ListSessions(ctx context.Context, schoolID string) ([]*models.Session, error) {
	return f.sessions, nil
}

func (f *fakeReferenceSource) ListTermsBySession(ctx context.Context, sessionID string) ([]*models.Term, error) {
	return f.terms[sessionID], nil
}

// testReferenceSource models a school with two class years, two arms, one
// session and two terms.
func testReferenceSource() *fakeReferenceSource {
	return &fakeReferenceSource{
		years: []*models.ClassYear{
			{ID: "y5", SchoolID: testSchoolID, Name: "Primary 5"},
			{ID: "y6", SchoolID: testSchoolID, Name: "Primary 6"},
		},
		arms: []*models.ClassArm{
			{ID: "aA", SchoolID: testSchoolID, Name: "A"},
			{ID: "aB", SchoolID: testSchoolID, Name: "B"},
		},
		groups: []*models.ClassGroup{
			{ID: "g5a", SchoolID: testSchoolID, Name: "Primary 5A", ClassYearID: "y5", ClassArmID: "aA"},
			{ID: "g5b", SchoolID: testSchoolID, Name: "Primary 5B", ClassYearID: "y5", ClassArmID: "aB"},
			{ID: "g6a", SchoolID: testSchoolID, Name: "Primary 6A", ClassYearID: "y6", ClassArmID: "aA"},
		},
		sessions: []*models.Session{
			{ID: "s1", SchoolID: testSchoolID, Name: "2025/2026"},
		},
		terms: map[string][]*models.Term{
			"s1": {
				{ID: "t1", SessionID: "s1", Name: "First Term"},
				{ID: "t2", SessionID: "s1", Name: "Second Term"},
			},
		},
	}
}

func testBundle(t *testing.T) *importer.ReferenceBundle {
	t.Helper()
	bundle, err := importer.LoadReferenceBundle(context.Background(), testReferenceSource(), testSchoolID)
	if err != nil {
		t.Fatalf("LoadReferenceBundle: %v", err)
	}
	return bundle
}

func resolveOne(t *testing.T, bundle *importer.ReferenceBundle, header []string, cells []string) (*importer.ResolvedRow, []string) {
	t.Helper()
	m := importer.ResolveHeader(header)
	return importer.ResolveRow(bundle, m, importer.Row{Number: 2, Cells: cells})
}

func TestResolveRowHappyPath(t *testing.T) {
	bundle := testBundle(t)

	resolved, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Name", "Parent Phone", "Class", "Term"},
		[]string{"STU-001", "Ada", "Obi", "Ngozi Obi", "08031234567", "Primary 5A", "First Term"})

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if resolved.AdmissionNo != "STU-001" || resolved.FirstName != "Ada" || resolved.LastName != "Obi" {
		t.Errorf("identity fields wrong: %+v", resolved)
	}
	if resolved.ParentPhone != "+2348031234567" {
		t.Errorf("phone = %q", resolved.ParentPhone)
	}
	if resolved.ClassGroupID != "g5a" || resolved.TermID != "t1" || resolved.SessionID != "s1" {
		t.Errorf("references wrong: group=%s term=%s session=%s",
			resolved.ClassGroupID, resolved.TermID, resolved.SessionID)
	}
}

func TestResolveRowYearArmCombination(t *testing.T) {
	bundle := testBundle(t)

	resolved, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class Year", "Class Arm", "Term"},
		[]string{"STU-002", "Chidi", "Eze", "08031112222", "Primary 5", "B", "Second Term"})

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if resolved.ClassGroupID != "g5b" {
		t.Errorf("group = %s, want g5b", resolved.ClassGroupID)
	}
	if resolved.TermID != "t2" {
		t.Errorf("term = %s, want t2", resolved.TermID)
	}
}

func TestResolveRowByIDColumns(t *testing.T) {
	bundle := testBundle(t)

	resolved, errs := resolveOne(t, bundle,
		[]string{"admissionNo", "firstName", "lastName", "parentEmail", "classGroupId", "termId"},
		[]string{"STU-003", "Bola", "Ade", "Bola.Parent@Example.com", "g6a", "t1"})

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if resolved.ClassGroupID != "g6a" || resolved.TermID != "t1" {
		t.Errorf("references wrong: %+v", resolved)
	}
	if resolved.ParentEmail != "bola.parent@example.com" {
		t.Errorf("email not normalized: %q", resolved.ParentEmail)
	}
}

func TestResolveRowMissingRequired(t *testing.T) {
	bundle := testBundle(t)

	// No admission number and no contact identifier
	_, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class", "Term"},
		[]string{"", "Ada", "Obi", "", "Primary 5A", "First Term"})

	if len(errs) != 1 || errs[0] != importer.ReasonMissingRequired {
		t.Errorf("errs = %v, want [%s]", errs, importer.ReasonMissingRequired)
	}
}

func TestResolveRowUnknownReferences(t *testing.T) {
	bundle := testBundle(t)

	cases := []struct {
		name   string
		header []string
		cells  []string
		want   string
	}{
		{
			"unknown class group",
			[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class", "Term"},
			[]string{"STU-004", "Ada", "Obi", "08031234567", "Primary 9Z", "First Term"},
			"Unknown class group: Primary 9Z",
		},
		{
			"unknown class year",
			[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class Year", "Term"},
			[]string{"STU-004", "Ada", "Obi", "08031234567", "Primary 9", "First Term"},
			"Unknown class year: Primary 9",
		},
		{
			"unknown term",
			[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class", "Term"},
			[]string{"STU-004", "Ada", "Obi", "08031234567", "Primary 5A", "Fourth Term"},
			"Unknown term: Fourth Term",
		},
		{
			"unknown session",
			[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class", "Session", "Term"},
			[]string{"STU-004", "Ada", "Obi", "08031234567", "Primary 5A", "2019/2020", "First Term"},
			"Unknown session: 2019/2020",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := resolveOne(t, bundle, tc.header, tc.cells)
			if !containsReason(errs, tc.want) {
				t.Errorf("errs = %v, want to contain %q", errs, tc.want)
			}
		})
	}
}

func TestResolveRowAmbiguousGroupName(t *testing.T) {
	source := testReferenceSource()
	source.groups = append(source.groups,
		&models.ClassGroup{ID: "gold5", SchoolID: testSchoolID, Name: "Gold", ClassYearID: "y5"},
		&models.ClassGroup{ID: "gold6", SchoolID: testSchoolID, Name: "Gold", ClassYearID: "y6"},
	)
	bundle, err := importer.LoadReferenceBundle(context.Background(), source, testSchoolID)
	if err != nil {
		t.Fatalf("LoadReferenceBundle: %v", err)
	}

	_, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class", "Term"},
		[]string{"STU-005", "Ada", "Obi", "08031234567", "Gold", "First Term"})

	if !containsReason(errs, "Ambiguous class group: Gold") {
		t.Errorf("errs = %v, want ambiguous class group", errs)
	}
}

func TestResolveRowGroupMismatch(t *testing.T) {
	bundle := testBundle(t)

	// Group says Primary 5A but the year column says Primary 6
	_, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class", "Class Year", "Term"},
		[]string{"STU-006", "Ada", "Obi", "08031234567", "Primary 5A", "Primary 6", "First Term"})

	if !containsReason(errs, importer.ReasonGroupMismatch) {
		t.Errorf("errs = %v, want group mismatch", errs)
	}
}

func TestResolveRowMissingClassGroup(t *testing.T) {
	bundle := testBundle(t)

	_, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Term"},
		[]string{"STU-007", "Ada", "Obi", "08031234567", "First Term"})

	if !containsReason(errs, importer.ReasonMissingClassGroup) {
		t.Errorf("errs = %v, want missing class group", errs)
	}
}

func TestResolveRowMissingTermWithSeveralTerms(t *testing.T) {
	bundle := testBundle(t)

	_, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class"},
		[]string{"STU-008", "Ada", "Obi", "08031234567", "Primary 5A"})

	if !containsReason(errs, importer.ReasonMissingTerm) {
		t.Errorf("errs = %v, want missing term", errs)
	}
}

func TestResolveRowSoleTermDefault(t *testing.T) {
	source := testReferenceSource()
	source.terms["s1"] = source.terms["s1"][:1]
	bundle, err := importer.LoadReferenceBundle(context.Background(), source, testSchoolID)
	if err != nil {
		t.Fatalf("LoadReferenceBundle: %v", err)
	}

	resolved, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class"},
		[]string{"STU-009", "Ada", "Obi", "08031234567", "Primary 5A"})

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if resolved.TermID != "t1" || resolved.SessionID != "s1" {
		t.Errorf("sole term default wrong: term=%s session=%s", resolved.TermID, resolved.SessionID)
	}
}

func TestResolveRowTermAmbiguousAcrossSessions(t *testing.T) {
	source := testReferenceSource()
	source.sessions = append(source.sessions,
		&models.Session{ID: "s2", SchoolID: testSchoolID, Name: "2026/2027"})
	source.terms["s2"] = []*models.Term{
		{ID: "t3", SessionID: "s2", Name: "First Term"},
	}
	bundle, err := importer.LoadReferenceBundle(context.Background(), source, testSchoolID)
	if err != nil {
		t.Fatalf("LoadReferenceBundle: %v", err)
	}

	// Two sessions both have a First Term and the file names no session
	_, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class", "Term"},
		[]string{"STU-010", "Ada", "Obi", "08031234567", "Primary 5A", "First Term"})

	if !containsReason(errs, "Ambiguous term: First Term (add session to disambiguate)") {
		t.Errorf("errs = %v, want cross-session ambiguity", errs)
	}

	// Naming the session resolves it
	resolved, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class", "Session", "Term"},
		[]string{"STU-010", "Ada", "Obi", "08031234567", "Primary 5A", "2026/2027", "First Term"})

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if resolved.TermID != "t3" || resolved.SessionID != "s2" {
		t.Errorf("session-scoped term wrong: term=%s session=%s", resolved.TermID, resolved.SessionID)
	}
}

func TestResolveRowAccumulatesErrors(t *testing.T) {
	bundle := testBundle(t)

	// Missing identity fields and an unknown group in the same row
	_, errs := resolveOne(t, bundle,
		[]string{"Admission No", "First Name", "Last Name", "Parent Phone", "Class", "Term"},
		[]string{"", "", "Obi", "08031234567", "Primary 9Z", "Fourth Term"})

	for _, want := range []string{
		importer.ReasonMissingRequired,
		"Unknown class group: Primary 9Z",
		"Unknown term: Fourth Term",
	} {
		if !containsReason(errs, want) {
			t.Errorf("errs = %v, want to contain %q", errs, want)
		}
	}
}

func containsReason(errs []string, want string) bool {
	for _, e := range errs {
		if strings.Contains(e, want) {
			return true
		}
	}
	return false
}
