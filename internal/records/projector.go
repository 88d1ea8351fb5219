// internal/records/projector.go
package records

// PublicView is the subset of a record safe to show the viewer. StaffNotes
// is populated only for staff viewers, and only when non-empty; inclusion
// is an explicit allow-list, so a new sensitive record field stays hidden
// until someone adds it here deliberately.
type PublicView struct {
	Handle        string
	Status        string
	NextSteps     string
	PaymentStatus string
	StaffNotes    string
}

// Project renders the record for a viewer. Student views carry a payment
// line; teacher applications have no payment step.
func Project(rec *Record, storeID StoreID, viewerIsStaff bool) PublicView {
	view := PublicView{
		Handle:    rec.Handle,
		Status:    rec.Status,
		NextSteps: rec.NextSteps,
	}

	if view.Status == "" {
		view.Status = "Pending"
	}
	if view.NextSteps == "" {
		view.NextSteps = "No next steps listed yet."
	}

	if storeID == StoreStudent {
		view.PaymentStatus = rec.PaymentStatus
		if view.PaymentStatus == "" {
			view.PaymentStatus = "N/A"
		}
	}

	if viewerIsStaff && rec.StaffNotes != "" {
		view.StaffNotes = rec.StaffNotes
	}

	return view
}
