// internal/records/record.go
package records

// StoreID selects which external record store a lookup targets.
type StoreID string

const (
	StoreStudent StoreID = "student"
	StoreTeacher StoreID = "teacher"
)

// ParseStoreID maps user-supplied applicant types onto a store.
func ParseStoreID(s string) (StoreID, bool) {
	switch s {
	case "student", "students":
		return StoreStudent, true
	case "teacher", "teachers", "staff":
		return StoreTeacher, true
	default:
		return "", false
	}
}

// Field is a canonical record field name, resolved against each store's
// actual header row at read time.
type Field string

const (
	FieldHandle          Field = "handle"
	FieldLinkedAccountID Field = "linked_account_id"
	FieldStatus          Field = "status"
	FieldPaymentStatus   Field = "payment_status"
	FieldNextSteps       Field = "next_steps"
	FieldStaffNotes      Field = "staff_notes"
	FieldLastUpdated     Field = "last_updated"
	FieldPositions       Field = "positions"
	FieldSignature       Field = "signature"
)

// RowRef addresses one data row of a store: the tab it lives on, its
// 1-based sheet row number, and the resolved column index per canonical
// field. Fields whose header did not resolve are absent from Columns.
type RowRef struct {
	Tab     string
	Row     int
	Columns map[Field]int
}

// Record is one application row. Status and payment status are carried as
// the store's free text; the state machine parses them into tagged variants
// when it needs to reason about them.
type Record struct {
	Handle          string
	LinkedAccountID string
	Status          string
	PaymentStatus   string
	NextSteps       string
	StaffNotes      string
	LastUpdated     string
	Positions       string
	Signature       string

	Ref RowRef
}

// StudentStatus is the internal tagged view of a student record's status.
type StudentStatus int

const (
	StudentPending StudentStatus = iota
	StudentApproved
	StudentDenied
	StudentEnrollmentComplete
)

func (s StudentStatus) String() string {
	switch s {
	case StudentApproved:
		return "Approved"
	case StudentDenied:
		return "Denied"
	case StudentEnrollmentComplete:
		return "Enrollment Complete"
	default:
		return "Pending"
	}
}

// ParseStudentStatus maps the store's free text onto a tagged status.
// Unrecognized text reads as Pending, matching how the store treats an
// empty cell.
func ParseStudentStatus(text string) StudentStatus {
	switch normalizeHeader(text) {
	case "approved":
		return StudentApproved
	case "denied":
		return StudentDenied
	case "enrollmentcomplete", "complete":
		return StudentEnrollmentComplete
	default:
		return StudentPending
	}
}

// TeacherStatus is the internal tagged view of a teacher record's status.
// Teacher applications have no payment step, so there is no completion
// state.
type TeacherStatus int

const (
	TeacherPending TeacherStatus = iota
	TeacherApproved
	TeacherDenied
)

func (s TeacherStatus) String() string {
	switch s {
	case TeacherApproved:
		return "Approved"
	case TeacherDenied:
		return "Denied"
	default:
		return "Pending"
	}
}

func ParseTeacherStatus(text string) TeacherStatus {
	switch normalizeHeader(text) {
	case "approved":
		return TeacherApproved
	case "denied":
		return TeacherDenied
	default:
		return TeacherPending
	}
}
