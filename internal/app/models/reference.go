package models

// Reference entities are managed by the admin product and read-only during
// import. A ClassGroup combines a class year with an optional arm
// (e.g. "JSS1" + "A" -> "JSS1A"); groups without an arm match year-only.

// ClassYear represents an academic year level (e.g. JSS1)
type ClassYear struct {
	ID       string `json:"id" db:"id"`
	SchoolID string `json:"schoolId" db:"school_id"`
	Name     string `json:"name" db:"name"`
}

// ClassArm represents a subdivision of a class year (e.g. A, Blue)
type ClassArm struct {
	ID       string `json:"id" db:"id"`
	SchoolID string `json:"schoolId" db:"school_id"`
	Name     string `json:"name" db:"name"`
}

// ClassGroup represents a teachable class unit students enroll into
type ClassGroup struct {
	ID          string `json:"id" db:"id"`
	SchoolID    string `json:"schoolId" db:"school_id"`
	Name        string `json:"name" db:"name"`
	ClassYearID string `json:"classYearId" db:"class_year_id"`
	ClassArmID  string `json:"classArmId,omitempty" db:"class_arm_id"`
}

// Session represents an academic session (e.g. 2025/2026)
type Session struct {
	ID       string `json:"id" db:"id"`
	SchoolID string `json:"schoolId" db:"school_id"`
	Name     string `json:"name" db:"name"`
}

// Term represents a term within a session
type Term struct {
	ID        string `json:"id" db:"id"`
	SessionID string `json:"sessionId" db:"session_id"`
	Name      string `json:"name" db:"name"`
}
