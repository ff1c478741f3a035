// Package medisync holds the canonical MediSync entities and the REST
// client that talks to the hospital backend. All backend field-name
// variance is absorbed here; the rest of the codebase only ever sees the
// canonical shapes.
package medisync

import "time"

// AppointmentStatus is the canonical lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// ProcessStatus is the canonical lifecycle state of a medical process.
type ProcessStatus string

const (
	ProcessScheduled  ProcessStatus = "scheduled"
	ProcessInProgress ProcessStatus = "in_progress"
	ProcessCompleted  ProcessStatus = "completed"
	ProcessCancelled  ProcessStatus = "cancelled"
)

// BillingStatus is the canonical payment state of a billing record.
type BillingStatus string

const (
	BillingPending BillingStatus = "pending"
	BillingPaid    BillingStatus = "paid"
	BillingOverdue BillingStatus = "overdue"
)

// Patient is the canonical patient profile. Balance is an authoritative
// server-side value; the client holds it only as a session-scoped cache.
type Patient struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	DateOfBirth string  `json:"dateOfBirth,omitempty"`
	Balance     float64 `json:"balance"`
}

// Doctor is the canonical doctor directory entry.
type Doctor struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Specialization   string  `json:"specialization"`
	AvgRating        float64 `json:"avgRating"`
	AppointmentCount int     `json:"appointmentCount"`
	Fee              float64 `json:"fee"`
	Experience       string  `json:"experience,omitempty"`
}

// Appointment is the canonical appointment record. Rating is 0 until the
// patient leaves a review (valid reviews are 1-5).
type Appointment struct {
	ID             int64             `json:"id"`
	PatientID      int64             `json:"patientId,omitempty"`
	DoctorID       int64             `json:"doctorId,omitempty"`
	DoctorName     string            `json:"doctorName,omitempty"`
	Specialization string            `json:"specialization,omitempty"`
	Start          time.Time         `json:"start"`
	End            time.Time         `json:"end"`
	Status         AppointmentStatus `json:"status"`
	Rating         int               `json:"rating,omitempty"`
	Review         string            `json:"review,omitempty"`
	Processes      []Process         `json:"processes,omitempty"`
}

// Reviewed reports whether the appointment already carries a review.
func (a Appointment) Reviewed() bool {
	return a.Rating > 0 || a.Review != ""
}

// Process is a medical process attached to an appointment.
type Process struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProcessStatus `json:"status"`
	Billing     *Billing      `json:"billing,omitempty"`
}

// Billing is the payment record for a process. Some backend variants omit
// the billing id, so only the amount is required.
type Billing struct {
	ID     int64         `json:"id,omitempty"`
	Amount float64       `json:"amount"`
	Status BillingStatus `json:"paymentStatus"`
	Date   string        `json:"date,omitempty"`
}

// TimeSlot is an ephemeral availability window fetched per doctor and
// date. It is never persisted beyond the current booking session.
type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// AppointmentStats is the admin dashboard appointment summary.
type AppointmentStats struct {
	Total     int    `json:"total"`
	Scheduled int    `json:"scheduled"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
	Period    string `json:"period,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// RevenueStats is the admin dashboard revenue summary.
type RevenueStats struct {
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
	Overdue float64 `json:"overdue"`
	Period  string  `json:"period,omitempty"`
}

// ResourceAvailability is the canonical state of a medical resource.
type ResourceAvailability string

const (
	ResourceAvailable   ResourceAvailability = "available"
	ResourceInUse       ResourceAvailability = "in_use"
	ResourceMaintenance ResourceAvailability = "maintenance"
)

// Resource is a reservable medical resource (equipment, rooms). The
// department is only populated by the department-filtered listing.
type Resource struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	Department   string               `json:"department,omitempty"`
	Availability ResourceAvailability `json:"availability"`
}

// User is the minimal normalized identity returned by the auth endpoints.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// AuthResponse is the token payload returned by login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role,omitempty"`
}
