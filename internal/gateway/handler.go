// Package gateway exposes the patient-facing HTTP surface. It is a thin
// layer over the backend client: handlers normalize through the client,
// run the local guards, and route status changes through the optimistic
// coordinator so the rendered record set never waits on the network.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medisync/medisync-go/internal/medisync"
	"github.com/medisync/medisync-go/internal/optimistic"
	"github.com/medisync/medisync-go/internal/schedule"
	"github.com/medisync/medisync-go/internal/session"
	"github.com/medisync/medisync-go/pkg/logging"
)

// Handler serves the patient dashboard endpoints.
type Handler struct {
	client       *medisync.Client
	sess         *session.Session
	appointments *optimistic.Coordinator[medisync.Appointment]
	processes    *optimistic.Coordinator[medisync.Process]
	reviews      *schedule.ReviewLedger
	logger       *logging.Logger

	// seedMu serializes the first-touch load of the process set so two
	// concurrent payments cannot reseed past each other's in-flight mark.
	seedMu sync.Mutex
}

// NewHandler creates the gateway handler. The coordinator refetches the
// appointment list after every settled action so server-side effects
// (freed slots, generated processes) show up without a manual reload.
func NewHandler(client *medisync.Client, sess *session.Session, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{
		client:  client,
		sess:    sess,
		reviews: schedule.NewReviewLedger(),
		logger:  logger,
	}
	h.appointments = optimistic.New(optimistic.Config[medisync.Appointment]{
		IDOf:    func(a medisync.Appointment) int64 { return a.ID },
		Refetch: h.refetchAppointments,
		Logger:  logger,
	})
	h.processes = optimistic.New(optimistic.Config[medisync.Process]{
		IDOf:    func(p medisync.Process) int64 { return p.ID },
		Refetch: h.refetchProcesses,
		Logger:  logger,
	})
	return h
}

func (h *Handler) refetchAppointments(ctx context.Context) ([]medisync.Appointment, error) {
	return h.client.PatientAppointments(ctx, "")
}

func (h *Handler) refetchProcesses(ctx context.Context) ([]medisync.Process, error) {
	return h.client.PatientProcesses(ctx)
}

// Register creates a patient account.
// POST /api/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req medisync.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, err := h.client.Register(r.Context(), req)
	if err != nil {
		h.writeFailure(w, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session.
// POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	auth, err := h.client.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeFailure(w, "login", err)
		return
	}
	creds := &session.Credentials{
		Token: auth.AccessToken,
		Role:  auth.Role,
		Email: req.Email,
	}
	if err := h.sess.Set(r.Context(), creds); err != nil {
		h.logger.Error("failed to persist session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": auth.Role})
}

// Logout drops the stored session.
// POST /api/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.Clear(r.Context()); err != nil {
		h.logger.Error("failed to clear session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SessionInfo reports whether a valid session is held and who owns it.
// GET /api/session
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.sess.Credentials()
	resp := map[string]any{"authenticated": h.sess.Authenticated()}
	if ok {
		resp["role"] = creds.Role
		resp["email"] = creds.Email
	}
	writeJSON(w, http.StatusOK, resp)
}

// Profile returns the patient's own profile.
// GET /api/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	patient, err := h.client.Profile(r.Context())
	if err != nil {
		h.writeFailure(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// UpdateProfile applies a partial profile update.
// PUT /api/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update medisync.PatientUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	patient, err := h.client.UpdateProfile(r.Context(), update)
	if err != nil {
		h.writeFailure(w, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

type addFundsRequest struct {
	Amount float64 `json:"amount"`
}

// AddFunds credits the balance.
// POST /api/balance
func (h *Handler) AddFunds(w http.ResponseWriter, r *http.Request) {
	var req addFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	patient, err := h.client.AddFunds(r.Context(), req.Amount)
	if err != nil {
		h.writeFailure(w, "add funds", err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// partitionResponse is the appointment dashboard payload.
type partitionResponse struct {
	Upcoming []medisync.Appointment `json:"upcoming"`
	Past     []medisync.Appointment `json:"past"`
}

// Appointments fetches the patient's appointments and returns them
// partitioned for the dashboard. The fetch also reseeds the coordinator,
// discarding any action still in flight against the previous list.
// GET /api/appointments
func (h *Handler) Appointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.client.PatientAppointments(r.Context(), "")
	if err != nil {
		h.writeFailure(w, "list appointments", err)
		return
	}
	h.appointments.Load(appts)
	h.reviews.Load(appts)

	p := schedule.PartitionByTime(h.appointments.Records(), time.Now())
	resp := partitionResponse{Upcoming: p.Upcoming, Past: p.Past}
	if resp.Upcoming == nil {
		resp.Upcoming = []medisync.Appointment{}
	}
	if resp.Past == nil {
		resp.Past = []medisync.Appointment{}
	}
	writeJSON(w, http.StatusOK, resp)
}

type bookRequest struct {
	DoctorID int64     `json:"doctorId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// BookAppointment books a slot with a doctor.
// POST /api/appointments
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DoctorID == 0 || req.Start.IsZero() || req.End.IsZero() {
		writeError(w, http.StatusBadRequest, "doctorId, start, and end are required")
		return
	}
	if !req.End.After(req.Start) {
		writeError(w, http.StatusBadRequest, "end must be after start")
		return
	}
	appt, err := h.client.BookAppointment(r.Context(), req.DoctorID, req.Start, req.End)
	if err != nil {
		h.writeFailure(w, "book appointment", err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// CancelAppointment optimistically cancels an appointment.
// POST /api/appointments/{id}/cancel
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, medisync.AppointmentCancelled)
}

// CompleteAppointment optimistically marks an appointment completed.
// Completion never touches the balance; billing is settled per process.
// POST /api/appointments/{id}/complete
func (h *Handler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, medisync.AppointmentCompleted)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, to medisync.AppointmentStatus) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	action := optimistic.Action[medisync.Appointment]{
		Name: string(to),
		Validate: func(current medisync.Appointment) error {
			return schedule.CheckTransition(current.Status, to)
		},
		Apply: func(current medisync.Appointment) medisync.Appointment {
			current.Status = to
			return current
		},
		Send: func(ctx context.Context) (medisync.Appointment, error) {
			return h.client.UpdateAppointmentStatus(ctx, id, to)
		},
	}
	appt, err := h.appointments.Run(r.Context(), id, action)
	if err != nil {
		h.writeFailure(w, string(to), err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// ReviewAppointment attaches a one-time rating to a completed
// appointment, optimistically.
// POST /api/appointments/{id}/review
func (h *Handler) ReviewAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	action := optimistic.Action[medisync.Appointment]{
		Name: "review",
		Validate: func(current medisync.Appointment) error {
			return schedule.CheckReview(current, req.Rating, h.reviews)
		},
		Apply: func(current medisync.Appointment) medisync.Appointment {
			current.Rating = req.Rating
			current.Review = req.Review
			return current
		},
		Send: func(ctx context.Context) (medisync.Appointment, error) {
			return h.client.ReviewAppointment(ctx, id, req.Rating, req.Review)
		},
	}
	appt, err := h.appointments.Run(r.Context(), id, action)
	if err != nil {
		h.writeFailure(w, "review", err)
		return
	}
	h.reviews.Mark(id)
	writeJSON(w, http.StatusOK, appt)
}

// Doctors lists the bookable doctor directory.
// GET /api/doctors
func (h *Handler) Doctors(w http.ResponseWriter, r *http.Request) {
	filter := medisync.DoctorFilter{
		Specialization: r.URL.Query().Get("specialization"),
	}
	if raw := r.URL.Query().Get("minRating"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "minRating must be a number")
			return
		}
		filter.MinRating = min
	}
	doctors, err := h.client.Doctors(r.Context(), filter)
	if err != nil {
		h.writeFailure(w, "list doctors", err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

// AvailableDates lists the dates a doctor has open slots.
// GET /api/doctors/{id}/dates
func (h *Handler) AvailableDates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dates, err := h.client.AvailableDates(r.Context(), id)
	if err != nil {
		h.writeFailure(w, "available dates", err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, http.StatusOK, dates)
}

// Slots lists a doctor's bookable slots for one date, with slots that
// are taken or already started filtered out.
// GET /api/doctors/{id}/slots?date=YYYY-MM-DD
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	date := r.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	slots, err := h.client.TimeSlots(r.Context(), id, date)
	if err != nil {
		h.writeFailure(w, "time slots", err)
		return
	}
	open := schedule.BookableSlots(slots, time.Now())
	if open == nil {
		open = []medisync.TimeSlot{}
	}
	writeJSON(w, http.StatusOK, open)
}

// Processes lists the patient's medical processes with billing attached.
// The fetch reseeds the process coordinator, like the appointment list
// does for appointments.
// GET /api/processes
func (h *Handler) Processes(w http.ResponseWriter, r *http.Request) {
	procs, err := h.client.PatientProcesses(r.Context())
	if err != nil {
		h.writeFailure(w, "list processes", err)
		return
	}
	h.processes.Load(procs)
	out := h.processes.Records()
	if out == nil {
		out = []medisync.Process{}
	}
	writeJSON(w, http.StatusOK, out)
}

// AppointmentProcesses lists the processes attached to one appointment.
// GET /api/appointments/{id}/processes
func (h *Handler) AppointmentProcesses(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	procs, err := h.client.AppointmentProcesses(r.Context(), id)
	if err != nil {
		h.writeFailure(w, "appointment processes", err)
		return
	}
	if procs == nil {
		procs = []medisync.Process{}
	}
	writeJSON(w, http.StatusOK, procs)
}

// PayProcess settles the billing attached to a process, through the
// optimistic protocol: the guards run before any network write, the
// billing flips to paid locally, and a rejection restores the snapshot.
// Only this path debits the balance. A second payment on the same
// process while one is in flight is rejected, not queued.
// POST /api/processes/{id}/pay
func (h *Handler) PayProcess(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.seedProcesses(r.Context(), id); err != nil {
		h.writeFailure(w, "pay billing", err)
		return
	}
	proc, ok := h.processes.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("process %d not found", id))
		return
	}
	if err := schedule.CheckBilling(proc); err != nil {
		h.writeFailure(w, "pay billing", err)
		return
	}

	profile, err := h.client.Profile(r.Context())
	if err != nil {
		h.writeFailure(w, "pay billing", err)
		return
	}

	action := optimistic.Action[medisync.Process]{
		Name: "pay",
		Validate: func(current medisync.Process) error {
			if err := schedule.CheckBilling(current); err != nil {
				return err
			}
			return schedule.CheckPayment(profile.Balance, current.Billing.Amount)
		},
		Apply: func(current medisync.Process) medisync.Process {
			billing := *current.Billing
			billing.Status = medisync.BillingPaid
			current.Billing = &billing
			return current
		},
		Send: func(ctx context.Context) (medisync.Process, error) {
			billing, err := h.client.PayBilling(ctx, id)
			if err != nil {
				return medisync.Process{}, err
			}
			paid := proc
			paid.Billing = &billing
			return paid, nil
		},
	}
	result, err := h.processes.Run(r.Context(), id, action)
	if err != nil {
		h.writeFailure(w, "pay billing", err)
		return
	}
	writeJSON(w, http.StatusOK, result.Billing)
}

// seedProcesses loads the process set on first touch, so paying straight
// from an appointment detail screen works without listing processes
// first. Reloading while the id is already known would clear in-flight
// marks, so the seed is skipped once the record is present.
func (h *Handler) seedProcesses(ctx context.Context, id int64) error {
	if _, ok := h.processes.Get(id); ok {
		return nil
	}
	h.seedMu.Lock()
	defer h.seedMu.Unlock()
	if _, ok := h.processes.Get(id); ok {
		return nil
	}
	procs, err := h.client.PatientProcesses(ctx)
	if err != nil {
		return err
	}
	h.processes.Load(procs)
	return nil
}

// Resources lists the medical resources, with optional name/department
// filters.
// GET /api/resources
func (h *Handler) Resources(w http.ResponseWriter, r *http.Request) {
	filter := medisync.ResourceFilter{
		Name:          r.URL.Query().Get("name"),
		Department:    r.URL.Query().Get("department"),
		AvailableOnly: r.URL.Query().Get("availableOnly") == "true",
	}
	resources, err := h.client.Resources(r.Context(), filter)
	if err != nil {
		h.writeFailure(w, "list resources", err)
		return
	}
	if resources == nil {
		resources = []medisync.Resource{}
	}
	writeJSON(w, http.StatusOK, resources)
}

// ResourceByID fetches one medical resource.
// GET /api/resources/{id}
func (h *Handler) ResourceByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.client.Resource(r.Context(), id)
	if err != nil {
		h.writeFailure(w, "get resource", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type reservationRequest struct {
	DoctorID int64 `json:"doctorId"`
}

// RequestResource files a reservation request for a resource. The
// availability guard runs against a fresh fetch so an in-use resource
// is rejected without a write.
// POST /api/resources/{id}/request
func (h *Handler) RequestResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DoctorID <= 0 {
		writeError(w, http.StatusBadRequest, "doctorId is required")
		return
	}
	res, err := h.client.Resource(r.Context(), id)
	if err != nil {
		h.writeFailure(w, "request resource", err)
		return
	}
	if err := schedule.CheckReservation(res); err != nil {
		h.writeFailure(w, "request resource", err)
		return
	}
	if err := h.client.RequestReservation(r.Context(), req.DoctorID, id); err != nil {
		h.writeFailure(w, "request resource", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

type availabilityRequest struct {
	Availability medisync.ResourceAvailability `json:"availability"`
}

// UpdateResourceAvailability sets a resource's availability (staff).
// PUT /api/resources/{id}/availability
func (h *Handler) UpdateResourceAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	switch req.Availability {
	case medisync.ResourceAvailable, medisync.ResourceInUse, medisync.ResourceMaintenance:
	default:
		writeError(w, http.StatusBadRequest, "availability must be available, in_use, or maintenance")
		return
	}
	if err := h.client.UpdateResourceAvailability(r.Context(), id, req.Availability); err != nil {
		h.writeFailure(w, "update resource availability", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminPatients lists all patients.
// GET /api/admin/patients
func (h *Handler) AdminPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.client.AdminPatients(r.Context())
	if err != nil {
		h.writeFailure(w, "admin patients", err)
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

// AdminDoctors lists all doctors.
// GET /api/admin/doctors
func (h *Handler) AdminDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.client.AdminDoctors(r.Context())
	if err != nil {
		h.writeFailure(w, "admin doctors", err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

// AppointmentStats returns appointment counters for a reporting period.
// GET /api/admin/stats/appointments?period=week|month|quarter|year
func (h *Handler) AppointmentStats(w http.ResponseWriter, r *http.Request) {
	period, ok := statsPeriod(w, r)
	if !ok {
		return
	}
	stats, err := h.client.AppointmentStatsFor(r.Context(), period)
	if err != nil {
		h.writeFailure(w, "appointment stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// RevenueStats returns revenue totals for a reporting period.
// GET /api/admin/stats/revenue?period=week|month|quarter|year
func (h *Handler) RevenueStats(w http.ResponseWriter, r *http.Request) {
	period, ok := statsPeriod(w, r)
	if !ok {
		return
	}
	stats, err := h.client.RevenueStatsFor(r.Context(), period)
	if err != nil {
		h.writeFailure(w, "revenue stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

var validPeriods = map[string]bool{"week": true, "month": true, "quarter": true, "year": true}

func statsPeriod(w http.ResponseWriter, r *http.Request) (string, bool) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}
	if !validPeriods[period] {
		writeError(w, http.StatusBadRequest, "period must be week, month, quarter, or year")
		return "", false
	}
	return period, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeFailure maps domain errors to HTTP statuses. Guard rejections and
// stale results are conflicts; upstream rejections pass their status
// through.
func (h *Handler) writeFailure(w http.ResponseWriter, action string, err error) {
	var apiErr *medisync.APIError
	var pending *optimistic.ActionPendingError
	var unknown *optimistic.UnknownRecordError
	var illegal *schedule.IllegalTransitionError
	var reviewed *schedule.AlreadyReviewedError
	var balance *schedule.InsufficientBalanceError
	var paid *schedule.AlreadyPaidError
	var unavailable *schedule.ResourceUnavailableError

	switch {
	case errors.As(err, &apiErr):
		detail := apiErr.Detail
		if detail == "" {
			detail = http.StatusText(apiErr.Status)
		}
		writeError(w, apiErr.Status, detail)
	case errors.As(err, &pending):
		writeError(w, http.StatusConflict, pending.Error())
	case errors.As(err, &unknown):
		writeError(w, http.StatusNotFound, unknown.Error())
	case errors.As(err, &illegal):
		writeError(w, http.StatusConflict, illegal.Error())
	case errors.As(err, &reviewed):
		writeError(w, http.StatusConflict, reviewed.Error())
	case errors.As(err, &balance):
		writeError(w, http.StatusPaymentRequired, balance.Error())
	case errors.As(err, &paid):
		writeError(w, http.StatusConflict, paid.Error())
	case errors.As(err, &unavailable):
		writeError(w, http.StatusConflict, unavailable.Error())
	case errors.Is(err, schedule.ErrNoBilling):
		writeError(w, http.StatusConflict, "process has no billing attached")
	case errors.Is(err, schedule.ErrNotCompleted):
		writeError(w, http.StatusConflict, "appointment is not completed")
	case errors.Is(err, schedule.ErrRatingOutOfRange):
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
	case errors.Is(err, optimistic.ErrSuperseded):
		writeError(w, http.StatusConflict, "appointment list was reloaded, retry the action")
	case errors.Is(err, session.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	default:
		h.logger.Error("request failed", "action", action, "error", err)
		writeError(w, http.StatusBadGateway, "upstream request failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Default().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
