package medisync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/medisync/medisync-go/internal/observability/metrics"
	"github.com/medisync/medisync-go/pkg/logging"
)

const defaultTimeout = 20 * time.Second

var tracer = otel.Tracer("medisync/client")

// TokenSource supplies the bearer token attached to authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StatusCasing selects the casing of status strings SENT to the backend.
// The two deployed frontends disagreed on this; responses are always
// normalized regardless, so the setting only affects outbound bodies.
type StatusCasing int

const (
	SendLowercase StatusCasing = iota
	SendCapitalized
)

// Format renders a canonical status in the configured wire casing.
func (c StatusCasing) Format(s AppointmentStatus) string {
	if c == SendCapitalized && len(s) > 0 {
		return strings.ToUpper(string(s[0])) + string(s[1:])
	}
	return string(s)
}

// Config holds configuration for the MediSync backend client.
type Config struct {
	BaseURL string // e.g. "http://localhost:8000/api/v1"
	Timeout time.Duration
	Casing  StatusCasing
	Tokens  TokenSource
	Logger  *logging.Logger
	Metrics *metrics.ClientMetrics
}

// Client is the typed REST client for the MediSync hospital backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	casing     StatusCasing
	tokens     TokenSource
	logger     *logging.Logger
	metrics    *metrics.ClientMetrics
}

// New creates a new MediSync backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("medisync: BaseURL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		casing:     cfg.Casing,
		tokens:     cfg.Tokens,
		logger:     logger,
		metrics:    cfg.Metrics,
	}, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var raw RawRecord
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", nil, req, &raw, false); err != nil {
		return User{}, err
	}
	return NormalizeUser(raw)
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role,omitempty"`
	Phone       string `json:"phoneNumber,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// Login exchanges credentials for a bearer token. The backend expects a
// form-encoded OAuth2 password grant.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("medisync: create login request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	var auth AuthResponse
	if err := c.send(ctx, "login", httpReq, &auth); err != nil {
		return nil, err
	}
	if auth.AccessToken == "" {
		return nil, fmt.Errorf("medisync: login returned empty access token")
	}
	return &auth, nil
}

// Profile returns the authenticated patient's profile.
func (c *Client) Profile(ctx context.Context) (Patient, error) {
	var raw RawRecord
	if err := c.do(ctx, "get_profile", http.MethodGet, "/patients/profile", nil, nil, &raw, true); err != nil {
		return Patient{}, err
	}
	return NormalizePatient(raw)
}

// UpdateProfile updates the patient's own profile fields.
func (c *Client) UpdateProfile(ctx context.Context, update PatientUpdate) (Patient, error) {
	var raw RawRecord
	if err := c.do(ctx, "update_profile", http.MethodPut, "/patients/profile", nil, update, &raw, true); err != nil {
		return Patient{}, err
	}
	return NormalizePatient(raw)
}

// PatientUpdate carries the editable profile fields.
type PatientUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phoneNumber,omitempty"`
}

// AddFunds credits the patient's balance and returns the updated profile.
func (c *Client) AddFunds(ctx context.Context, amount float64) (Patient, error) {
	q := url.Values{}
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	var raw RawRecord
	if err := c.do(ctx, "add_funds", http.MethodPut, "/patients/balance/add", q, nil, &raw, true); err != nil {
		return Patient{}, err
	}
	return NormalizePatient(raw)
}

// PatientAppointments lists the authenticated patient's appointments,
// optionally filtered by status.
func (c *Client) PatientAppointments(ctx context.Context, status AppointmentStatus) ([]Appointment, error) {
	return c.appointments(ctx, "patient_appointments", "/appointments/patient", status)
}

// DoctorAppointments lists the authenticated doctor's appointments.
func (c *Client) DoctorAppointments(ctx context.Context, status AppointmentStatus) ([]Appointment, error) {
	return c.appointments(ctx, "doctor_appointments", "/appointments/doctor", status)
}

func (c *Client) appointments(ctx context.Context, action, path string, status AppointmentStatus) ([]Appointment, error) {
	var q url.Values
	if status != "" {
		q = url.Values{}
		q.Set("status", c.casing.Format(status))
	}
	var raws []RawRecord
	if err := c.do(ctx, action, http.MethodGet, path, q, nil, &raws, true); err != nil {
		return nil, err
	}
	appts := make([]Appointment, 0, len(raws))
	for _, raw := range raws {
		appt, err := NormalizeAppointment(raw)
		if err != nil {
			c.dropRecord("appointment", raw, err)
			continue
		}
		appts = append(appts, appt)
	}
	return appts, nil
}

// DoctorFilter narrows the doctor directory listing.
type DoctorFilter struct {
	Specialization string
	MinRating      float64
}

// Doctors lists the bookable doctor directory.
func (c *Client) Doctors(ctx context.Context, filter DoctorFilter) ([]Doctor, error) {
	q := url.Values{}
	if filter.Specialization != "" {
		q.Set("specialization", filter.Specialization)
	}
	if filter.MinRating > 0 {
		q.Set("min_rating", strconv.FormatFloat(filter.MinRating, 'f', -1, 64))
	}
	var raws []RawRecord
	if err := c.do(ctx, "list_doctors", http.MethodGet, "/appointments/doctors", q, nil, &raws, true); err != nil {
		return nil, err
	}
	doctors := make([]Doctor, 0, len(raws))
	for _, raw := range raws {
		doc, err := NormalizeDoctor(raw)
		if err != nil {
			c.dropRecord("doctor", raw, err)
			continue
		}
		doctors = append(doctors, doc)
	}
	return doctors, nil
}

// AvailableDates lists the dates (YYYY-MM-DD) with open slots for a doctor.
func (c *Client) AvailableDates(ctx context.Context, doctorID int64) ([]string, error) {
	var dates []string
	path := fmt.Sprintf("/appointments/doctor/%d/available-dates", doctorID)
	if err := c.do(ctx, "available_dates", http.MethodGet, path, nil, nil, &dates, true); err != nil {
		return nil, err
	}
	return dates, nil
}

// TimeSlots lists a doctor's open slots for one date (YYYY-MM-DD).
func (c *Client) TimeSlots(ctx context.Context, doctorID int64, date string) ([]TimeSlot, error) {
	q := url.Values{}
	q.Set("date", date)
	var raws []RawRecord
	path := fmt.Sprintf("/appointments/doctor/%d/slots", doctorID)
	if err := c.do(ctx, "time_slots", http.MethodGet, path, q, nil, &raws, true); err != nil {
		return nil, err
	}
	slots := make([]TimeSlot, 0, len(raws))
	for _, raw := range raws {
		slot, err := NormalizeTimeSlot(raw)
		if err != nil {
			c.dropRecord("timeslot", raw, err)
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// BookAppointment books a slot with a doctor.
func (c *Client) BookAppointment(ctx context.Context, doctorID int64, start, end time.Time) (Appointment, error) {
	body := map[string]any{
		"doctorID":  doctorID,
		"startTime": start.UTC().Format(time.RFC3339),
		"endTime":   end.UTC().Format(time.RFC3339),
	}
	var raw RawRecord
	if err := c.do(ctx, "book_appointment", http.MethodPost, "/appointments/book", nil, body, &raw, true); err != nil {
		return Appointment{}, err
	}
	return NormalizeAppointment(raw)
}

// UpdateAppointmentStatus transitions an appointment and returns the
// server's canonical record. Legality is the caller's concern; this is
// pure transport.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id int64, status AppointmentStatus) (Appointment, error) {
	body := map[string]string{"status": c.casing.Format(status)}
	var raw RawRecord
	path := fmt.Sprintf("/appointments/%d/status", id)
	if err := c.do(ctx, "update_appointment_status", http.MethodPut, path, nil, body, &raw, true); err != nil {
		return Appointment{}, err
	}
	return NormalizeAppointment(raw)
}

// ReviewAppointment attaches a rating and optional comment to a
// completed appointment.
func (c *Client) ReviewAppointment(ctx context.Context, id int64, rating int, review string) (Appointment, error) {
	body := map[string]any{"rating": rating, "review": review}
	var raw RawRecord
	path := fmt.Sprintf("/appointments/%d/review", id)
	if err := c.do(ctx, "review_appointment", http.MethodPut, path, nil, body, &raw, true); err != nil {
		return Appointment{}, err
	}
	return NormalizeAppointment(raw)
}

// PatientProcesses lists the authenticated patient's medical processes.
func (c *Client) PatientProcesses(ctx context.Context) ([]Process, error) {
	return c.processes(ctx, "patient_processes", "/processes/patient")
}

// AppointmentProcesses lists the processes attached to one appointment.
func (c *Client) AppointmentProcesses(ctx context.Context, appointmentID int64) ([]Process, error) {
	path := fmt.Sprintf("/processes/appointment/%d", appointmentID)
	return c.processes(ctx, "appointment_processes", path)
}

func (c *Client) processes(ctx context.Context, action, path string) ([]Process, error) {
	var raws []RawRecord
	if err := c.do(ctx, action, http.MethodGet, path, nil, nil, &raws, true); err != nil {
		return nil, err
	}
	procs := make([]Process, 0, len(raws))
	for _, raw := range raws {
		proc, err := NormalizeProcess(raw)
		if err != nil {
			c.dropRecord("process", raw, err)
			continue
		}
		procs = append(procs, proc)
	}
	return procs, nil
}

// PayBilling settles the billing attached to a process, debiting the
// patient's balance server-side. The updated billing record is returned.
func (c *Client) PayBilling(ctx context.Context, processID int64) (Billing, error) {
	var raw RawRecord
	path := fmt.Sprintf("/processes/%d/billing/pay", processID)
	if err := c.do(ctx, "pay_billing", http.MethodPut, path, nil, nil, &raw, true); err != nil {
		return Billing{}, err
	}
	return NormalizeBilling(raw)
}

// ResourceFilter narrows the medical resource listing.
type ResourceFilter struct {
	Name          string
	Department    string
	AvailableOnly bool
}

// Resources lists the medical resources, optionally filtered.
func (c *Client) Resources(ctx context.Context, filter ResourceFilter) ([]Resource, error) {
	q := url.Values{}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Department != "" {
		q.Set("department", filter.Department)
	}
	if filter.AvailableOnly {
		q.Set("available_only", "true")
	}
	var raws []RawRecord
	if err := c.do(ctx, "list_resources", http.MethodGet, "/resources", q, nil, &raws, true); err != nil {
		return nil, err
	}
	resources := make([]Resource, 0, len(raws))
	for _, raw := range raws {
		res, err := NormalizeResource(raw)
		if err != nil {
			c.dropRecord("resource", raw, err)
			continue
		}
		resources = append(resources, res)
	}
	return resources, nil
}

// Resource fetches one medical resource by id.
func (c *Client) Resource(ctx context.Context, id int64) (Resource, error) {
	var raw RawRecord
	path := fmt.Sprintf("/resources/%d", id)
	if err := c.do(ctx, "get_resource", http.MethodGet, path, nil, nil, &raw, true); err != nil {
		return Resource{}, err
	}
	return NormalizeResource(raw)
}

// RequestReservation files a pending reservation request for a resource
// on behalf of a doctor. Approval is a staff-side action.
func (c *Client) RequestReservation(ctx context.Context, doctorID, resourceID int64) error {
	body := map[string]any{
		"doctorID":   doctorID,
		"resourceID": resourceID,
		"status":     "Pending",
	}
	return c.do(ctx, "request_reservation", http.MethodPost, "/resources/request", nil, body, nil, true)
}

// UpdateResourceAvailability sets a resource's availability (staff
// only). The backend expects the capitalized wire form.
func (c *Client) UpdateResourceAvailability(ctx context.Context, id int64, availability ResourceAvailability) error {
	q := url.Values{}
	q.Set("availability", wireAvailability(availability))
	path := fmt.Sprintf("/resources/%d/availability", id)
	return c.do(ctx, "update_resource_availability", http.MethodPut, path, q, nil, nil, true)
}

func wireAvailability(a ResourceAvailability) string {
	switch a {
	case ResourceInUse:
		return "In Use"
	case ResourceMaintenance:
		return "Maintenance"
	}
	return "Available"
}

// AdminPatients lists all patients (admin only).
func (c *Client) AdminPatients(ctx context.Context) ([]Patient, error) {
	var raws []RawRecord
	if err := c.do(ctx, "admin_patients", http.MethodGet, "/admin/patients", nil, nil, &raws, true); err != nil {
		return nil, err
	}
	patients := make([]Patient, 0, len(raws))
	for _, raw := range raws {
		p, err := NormalizePatient(raw)
		if err != nil {
			c.dropRecord("patient", raw, err)
			continue
		}
		patients = append(patients, p)
	}
	return patients, nil
}

// AdminDoctors lists all doctors (admin only).
func (c *Client) AdminDoctors(ctx context.Context) ([]Doctor, error) {
	var raws []RawRecord
	if err := c.do(ctx, "admin_doctors", http.MethodGet, "/admin/doctors", nil, nil, &raws, true); err != nil {
		return nil, err
	}
	doctors := make([]Doctor, 0, len(raws))
	for _, raw := range raws {
		doc, err := NormalizeDoctor(raw)
		if err != nil {
			c.dropRecord("doctor", raw, err)
			continue
		}
		doctors = append(doctors, doc)
	}
	return doctors, nil
}

// AppointmentStatsFor returns appointment counters for a reporting
// period (week, month, quarter, year).
func (c *Client) AppointmentStatsFor(ctx context.Context, period string) (AppointmentStats, error) {
	q := url.Values{}
	q.Set("period", period)
	var raw RawRecord
	if err := c.do(ctx, "appointment_stats", http.MethodGet, "/admin/stats/appointments", q, nil, &raw, true); err != nil {
		return AppointmentStats{}, err
	}
	return NormalizeAppointmentStats(raw), nil
}

// RevenueStatsFor returns revenue totals for a reporting period.
func (c *Client) RevenueStatsFor(ctx context.Context, period string) (RevenueStats, error) {
	q := url.Values{}
	q.Set("period", period)
	var raw RawRecord
	if err := c.do(ctx, "revenue_stats", http.MethodGet, "/admin/stats/revenue", q, nil, &raw, true); err != nil {
		return RevenueStats{}, err
	}
	return NormalizeRevenueStats(raw), nil
}

func (c *Client) dropRecord(entity string, raw RawRecord, err error) {
	c.logger.Error("dropping malformed backend record", "entity", entity, "error", err, "raw", raw)
	c.metrics.ObserveDroppedRecord(entity)
}

func (c *Client) do(ctx context.Context, action, method, path string, query url.Values, body, out any, authed bool) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("medisync: marshal %s request: %w", action, err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("medisync: create %s request: %w", action, err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		if c.tokens == nil {
			return fmt.Errorf("medisync: %s requires authentication but no token source is configured", action)
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("medisync: %s: %w", action, err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(ctx, action, httpReq, out)
}

func (c *Client) send(ctx context.Context, action string, httpReq *http.Request, out any) error {
	ctx, span := tracer.Start(ctx, "medisync."+action)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", httpReq.Method),
		attribute.String("api.action", action),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		c.metrics.ObserveRequest(action, "transport_error", time.Since(start).Seconds())
		return fmt.Errorf("medisync: %s request failed: %w", action, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.metrics.ObserveRequest(action, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(resp.Body)
		apiErr := &APIError{Action: action, Status: resp.StatusCode, Detail: detail}
		span.RecordError(apiErr)
		c.logger.Warn("backend rejected request", "action", action, "status", resp.StatusCode, "detail", detail)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("medisync: decode %s response: %w", action, err)
	}
	return nil
}

// decodeDetail pulls the message out of a FastAPI-style error body.
func decodeDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Detail == "" {
		return strings.TrimSpace(string(raw))
	}
	return body.Detail
}
