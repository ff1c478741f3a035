package medisync

import (
	"strconv"
	"strings"
	"time"
)

// RawRecord is a backend JSON object before normalization. The two
// deployed frontends observed the same entities arriving in camelCase,
// snake_case, and all-lowercase-concatenated form, sometimes mixed within
// one payload; each normalizer below checks an ordered candidate list per
// canonical field and takes the first defined value. The canonical key is
// always first, so normalizing an already-normalized record is a no-op.
type RawRecord map[string]any

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizePatient maps a raw patient record to its canonical shape.
// The id is required; everything else defaults to its zero value.
func NormalizePatient(raw RawRecord) (Patient, error) {
	id, ok := pickInt(raw, "id", "patientId", "patientID", "patientid", "patient_id")
	if !ok {
		return Patient{}, &MissingFieldError{Entity: "patient", Field: "id"}
	}
	balance, _ := pickFloat(raw, "balance")
	return Patient{
		ID:          id,
		Name:        firstString(raw, "name", "fullname", "full_name"),
		Email:       firstString(raw, "email"),
		Phone:       firstString(raw, "phone", "phoneNumber", "phonenumber", "phone_number"),
		DateOfBirth: firstString(raw, "dateOfBirth", "dob", "dateofbirth", "date_of_birth"),
		Balance:     balance,
	}, nil
}

// NormalizeDoctor maps a raw doctor record to its canonical shape. Admin
// endpoints identify doctors by employee id, so those keys are accepted
// as aliases.
func NormalizeDoctor(raw RawRecord) (Doctor, error) {
	id, ok := pickInt(raw, "id", "doctorId", "doctorID", "doctorid", "doctor_id", "employeeid", "employee_id")
	if !ok {
		return Doctor{}, &MissingFieldError{Entity: "doctor", Field: "id"}
	}
	rating, _ := pickFloat(raw, "avgRating", "avgrating", "avg_rating", "rating")
	count, _ := pickInt(raw, "appointmentCount", "appointmentcount", "appointment_count")
	fee, _ := pickFloat(raw, "fee", "price")
	return Doctor{
		ID:               id,
		Name:             firstString(raw, "name"),
		Specialization:   firstString(raw, "specialization", "speciality"),
		AvgRating:        rating,
		AppointmentCount: int(count),
		Fee:              fee,
		Experience:       firstString(raw, "experience"),
	}, nil
}

// NormalizeAppointment maps a raw appointment record to its canonical
// shape. The id, both timestamps, and the status are required; a record
// without them cannot drive the lifecycle at all. A process that fails to
// normalize is dropped individually rather than poisoning the
// appointment.
func NormalizeAppointment(raw RawRecord) (Appointment, error) {
	id, ok := pickInt(raw, "id", "appointmentId", "appointmentID", "appointmentid", "appointment_id")
	if !ok {
		return Appointment{}, &MissingFieldError{Entity: "appointment", Field: "id"}
	}
	start, err := pickTime(raw, "appointment", "start", "startTime", "starttime", "start_time", "startAt")
	if err != nil {
		return Appointment{}, err
	}
	end, err := pickTime(raw, "appointment", "end", "endTime", "endtime", "end_time", "endAt")
	if err != nil {
		return Appointment{}, err
	}
	if !end.After(start) {
		return Appointment{}, &InvalidFieldError{Entity: "appointment", Field: "end", Value: end}
	}
	rawStatus, ok := lookup(raw, "status")
	if !ok {
		return Appointment{}, &MissingFieldError{Entity: "appointment", Field: "status"}
	}
	status, err := NormalizeAppointmentStatus(asString(rawStatus))
	if err != nil {
		return Appointment{}, err
	}

	patientID, _ := pickInt(raw, "patientId", "patientID", "patientid", "patient_id")
	doctorID, _ := pickInt(raw, "doctorId", "doctorID", "doctorid", "doctor_id")
	rating, _ := pickFloat(raw, "rating")

	appt := Appointment{
		ID:             id,
		PatientID:      patientID,
		DoctorID:       doctorID,
		DoctorName:     firstString(raw, "doctorName", "doctorname", "doctor_name"),
		Specialization: firstString(raw, "specialization"),
		Start:          start,
		End:            end,
		Status:         status,
		Rating:         int(rating),
		Review:         firstString(raw, "review", "comment"),
	}

	if v, ok := lookup(raw, "processes"); ok {
		if list, ok := v.([]any); ok {
			for _, item := range list {
				rec, ok := toRawRecord(item)
				if !ok {
					continue
				}
				proc, err := NormalizeProcess(rec)
				if err != nil {
					continue
				}
				appt.Processes = append(appt.Processes, proc)
			}
		}
	}
	return appt, nil
}

// NormalizeProcess maps a raw process record to its canonical shape.
func NormalizeProcess(raw RawRecord) (Process, error) {
	id, ok := pickInt(raw, "id", "processId", "processID", "processid", "process_id")
	if !ok {
		return Process{}, &MissingFieldError{Entity: "process", Field: "id"}
	}
	status := ProcessScheduled
	if v, ok := lookup(raw, "status"); ok {
		s, err := NormalizeProcessStatus(asString(v))
		if err != nil {
			return Process{}, err
		}
		status = s
	}
	proc := Process{
		ID:          id,
		Name:        firstString(raw, "name", "processName", "processname", "process_name"),
		Description: firstString(raw, "description", "processDescription", "processdescription", "process_description"),
		Status:      status,
	}
	if v, ok := lookup(raw, "billing"); ok {
		if rec, ok := toRawRecord(v); ok {
			billing, err := NormalizeBilling(rec)
			if err != nil {
				return Process{}, err
			}
			proc.Billing = &billing
		}
	}
	return proc, nil
}

// NormalizeBilling maps a raw billing record to its canonical shape. One
// backend variant never sends a billing id, so only the amount is
// required; the payment status defaults to pending.
func NormalizeBilling(raw RawRecord) (Billing, error) {
	amount, ok := pickFloat(raw, "amount")
	if !ok {
		return Billing{}, &MissingFieldError{Entity: "billing", Field: "amount"}
	}
	if amount <= 0 {
		return Billing{}, &InvalidFieldError{Entity: "billing", Field: "amount", Value: amount}
	}
	status := BillingPending
	if v, ok := lookup(raw, "paymentStatus", "paymentstatus", "payment_status", "status"); ok {
		s, err := NormalizeBillingStatus(asString(v))
		if err != nil {
			return Billing{}, err
		}
		status = s
	}
	id, _ := pickInt(raw, "id", "billingId", "billingID", "billingid", "billing_id")
	return Billing{
		ID:     id,
		Amount: amount,
		Status: status,
		Date:   firstString(raw, "date", "billingDate", "billingdate", "billing_date"),
	}, nil
}

// NormalizeTimeSlot maps a raw slot record to its canonical shape. Slots
// without an availability flag are treated as available, matching the
// backend that only returns free slots.
func NormalizeTimeSlot(raw RawRecord) (TimeSlot, error) {
	start, err := pickTime(raw, "timeslot", "start", "startTime", "starttime", "start_time", "startAt")
	if err != nil {
		return TimeSlot{}, err
	}
	end, err := pickTime(raw, "timeslot", "end", "endTime", "endtime", "end_time", "endAt")
	if err != nil {
		return TimeSlot{}, err
	}
	if !end.After(start) {
		return TimeSlot{}, &InvalidFieldError{Entity: "timeslot", Field: "end", Value: end}
	}
	available := true
	if v, ok := lookup(raw, "available", "isAvailable", "isavailable", "is_available"); ok {
		available = asBool(v)
	}
	return TimeSlot{Start: start, End: end, Available: available}, nil
}

// NormalizeResource maps a raw medical resource record. The id and
// availability are both required: a resource whose availability is
// unknown cannot drive the reservation guard.
func NormalizeResource(raw RawRecord) (Resource, error) {
	id, ok := pickInt(raw, "id", "resourceId", "resourceID", "resourceid", "resource_id")
	if !ok {
		return Resource{}, &MissingFieldError{Entity: "resource", Field: "id"}
	}
	v, ok := lookup(raw, "availability")
	if !ok {
		return Resource{}, &MissingFieldError{Entity: "resource", Field: "availability"}
	}
	availability, err := NormalizeResourceAvailability(asString(v))
	if err != nil {
		return Resource{}, err
	}
	return Resource{
		ID:           id,
		Name:         firstString(raw, "name"),
		Department:   firstString(raw, "department", "deptName", "deptname", "dept_name"),
		Availability: availability,
	}, nil
}

// NormalizeResourceAvailability lowercases and validates an
// availability string. The backend sends capitalized forms
// ("Available", "In Use", "Maintenance").
func NormalizeResourceAvailability(s string) (ResourceAvailability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return ResourceAvailable, nil
	case "in_use", "in use", "in-use", "inuse":
		return ResourceInUse, nil
	case "maintenance":
		return ResourceMaintenance, nil
	}
	return "", &InvalidFieldError{Entity: "resource", Field: "availability", Value: s}
}

// NormalizeAppointmentStats maps a raw stats payload. Every counter
// defaults to zero; stats have no required fields.
func NormalizeAppointmentStats(raw RawRecord) AppointmentStats {
	total, _ := pickInt(raw, "total", "totalAppointments", "totalappointments", "total_appointments")
	scheduled, _ := pickInt(raw, "scheduled", "scheduledAppointments", "scheduledappointments", "scheduled_appointments")
	completed, _ := pickInt(raw, "completed", "completedAppointments", "completedappointments", "completed_appointments")
	cancelled, _ := pickInt(raw, "cancelled", "cancelledAppointments", "cancelledappointments", "cancelled_appointments")
	return AppointmentStats{
		Total:     int(total),
		Scheduled: int(scheduled),
		Completed: int(completed),
		Cancelled: int(cancelled),
		Period:    firstString(raw, "period"),
		StartDate: firstString(raw, "startDate", "startdate", "start_date"),
		EndDate:   firstString(raw, "endDate", "enddate", "end_date"),
	}
}

// NormalizeRevenueStats maps a raw revenue payload.
func NormalizeRevenueStats(raw RawRecord) RevenueStats {
	total, _ := pickFloat(raw, "total", "totalRevenue", "totalrevenue", "total_revenue")
	paid, _ := pickFloat(raw, "paid", "totalPaid", "totalpaid", "total_paid")
	pending, _ := pickFloat(raw, "pending", "totalPending", "totalpending", "total_pending")
	overdue, _ := pickFloat(raw, "overdue", "totalOverdue", "totaloverdue", "total_overdue")
	return RevenueStats{
		Total:   total,
		Paid:    paid,
		Pending: pending,
		Overdue: overdue,
		Period:  firstString(raw, "period"),
	}
}

// NormalizeUser maps a raw auth user payload.
func NormalizeUser(raw RawRecord) (User, error) {
	id, ok := pickInt(raw, "id", "userId", "userID", "userid", "user_id")
	if !ok {
		return User{}, &MissingFieldError{Entity: "user", Field: "id"}
	}
	return User{
		ID:    id,
		Name:  firstString(raw, "name"),
		Email: firstString(raw, "email"),
		Role:  strings.ToLower(firstString(raw, "role", "userType", "usertype", "user_type")),
	}, nil
}

// NormalizeAppointmentStatus lowercases and validates a wire status
// string. The two frontends disagreed on casing ("Scheduled" vs
// "scheduled"); both collapse to the canonical lowercase form here.
func NormalizeAppointmentStatus(s string) (AppointmentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scheduled":
		return AppointmentScheduled, nil
	case "completed":
		return AppointmentCompleted, nil
	case "cancelled", "canceled":
		return AppointmentCancelled, nil
	}
	return "", &InvalidFieldError{Entity: "appointment", Field: "status", Value: s}
}

// NormalizeProcessStatus lowercases and validates a process status.
func NormalizeProcessStatus(s string) (ProcessStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scheduled":
		return ProcessScheduled, nil
	case "in_progress", "in progress", "in-progress", "inprogress":
		return ProcessInProgress, nil
	case "completed":
		return ProcessCompleted, nil
	case "cancelled", "canceled":
		return ProcessCancelled, nil
	}
	return "", &InvalidFieldError{Entity: "process", Field: "status", Value: s}
}

// NormalizeBillingStatus lowercases and validates a payment status.
func NormalizeBillingStatus(s string) (BillingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return BillingPending, nil
	case "paid":
		return BillingPaid, nil
	case "overdue":
		return BillingOverdue, nil
	}
	return "", &InvalidFieldError{Entity: "billing", Field: "paymentStatus", Value: s}
}

// lookup returns the first defined, non-nil value among the candidate
// keys, in order.
func lookup(raw RawRecord, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func firstString(raw RawRecord, keys ...string) string {
	v, ok := lookup(raw, keys...)
	if !ok {
		return ""
	}
	return asString(v)
}

func pickInt(raw RawRecord, keys ...string) (int64, bool) {
	v, ok := lookup(raw, keys...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func pickFloat(raw RawRecord, keys ...string) (float64, bool) {
	v, ok := lookup(raw, keys...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func pickTime(raw RawRecord, entity string, keys ...string) (time.Time, error) {
	v, ok := lookup(raw, keys...)
	if !ok {
		return time.Time{}, &MissingFieldError{Entity: entity, Field: keys[0]}
	}
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	s := strings.TrimSpace(asString(v))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Zone-less backend timestamps are UTC.
			return t.UTC(), nil
		}
	}
	return time.Time{}, &InvalidFieldError{Entity: entity, Field: keys[0], Value: v}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	case float64:
		return b != 0
	}
	return false
}

func toRawRecord(v any) (RawRecord, bool) {
	switch m := v.(type) {
	case RawRecord:
		return m, true
	case map[string]any:
		return RawRecord(m), true
	}
	return nil, false
}
