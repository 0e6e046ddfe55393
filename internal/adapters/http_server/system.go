package httpserver

import (
	"net/http"
	"time"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
)

type settingsResponse struct {
	HotelName string     `json:"hotel_name"`
	Address   *string    `json:"hotel_address"`
	Phone     *string    `json:"hotel_phone"`
	Email     *string    `json:"hotel_email"`
	GSTNumber *string    `json:"gst_number"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type settingsRequest struct {
	HotelName string  `json:"hotel_name" validate:"required,max=100"`
	Address   *string `json:"hotel_address" validate:"omitempty,max=300"`
	Phone     *string `json:"hotel_phone" validate:"omitempty,max=20"`
	Email     *string `json:"hotel_email" validate:"omitempty,email"`
	GSTNumber *string `json:"gst_number" validate:"omitempty,max=30"`
}

func toSettings(hs domain.HotelSettings) settingsResponse {
	out := settingsResponse{HotelName: hs.Name, Address: hs.Address, Phone: hs.Phone, Email: hs.Email, GSTNumber: hs.GSTNumber}
	if !hs.UpdatedAt.IsZero() {
		out.UpdatedAt = &hs.UpdatedAt
	}
	return out
}

func (h *Handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSettings(hs))
}

func (h *Handlers) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	hs, err := h.Settings.Update(r.Context(), identity(r), domain.HotelSettings{
		Name: req.HotelName, Address: req.Address, Phone: req.Phone, Email: req.Email, GSTNumber: req.GSTNumber,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSettings(hs))
}

type reservedRoomResponse struct {
	BookingID        int64  `json:"booking_id"`
	BookingReference string `json:"booking_reference"`
	RoomID           int64  `json:"room_id"`
	RoomNumber       string `json:"room_number"`
	CustomerName     string `json:"customer_name"`
}

type promoteResponse struct {
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	TotalBookings int                    `json:"total_bookings"`
	UpdatedCount  int                    `json:"updated_count"`
	Updated       []reservedRoomResponse `json:"updated_rooms"`
}

type arrivalResponse struct {
	BookingID        int64   `json:"booking_id"`
	BookingReference string  `json:"booking_reference"`
	RoomID           int64   `json:"room_id"`
	RoomNumber       string  `json:"room_number"`
	RoomType         string  `json:"room_type"`
	CustomerName     string  `json:"customer_name"`
	Guests           int     `json:"number_of_guests"`
	SpecialRequests  *string `json:"special_requests"`
}

type occupantResponse struct {
	BookingID        int64  `json:"booking_id"`
	BookingReference string `json:"booking_reference"`
	CustomerName     string `json:"customer_name"`
	CheckIn          string `json:"check_in_date"`
	CheckOut         string `json:"check_out_date"`
	Guests           int    `json:"number_of_guests"`
}

type urgentResponse struct {
	RoomID     int64            `json:"room_id"`
	RoomNumber string           `json:"room_number"`
	Outgoing   occupantResponse `json:"current_guest"`
	Incoming   arrivalResponse  `json:"incoming_guest"`
}

type alertsResponse struct {
	Success         bool              `json:"success"`
	Error           string            `json:"error,omitempty"`
	Date            string            `json:"date"`
	Arrivals        []arrivalResponse `json:"arrivals"`
	UrgentCheckouts []urgentResponse  `json:"urgent_checkouts"`
}

type runResponse struct {
	Date    string          `json:"date"`
	Status  string          `json:"status"`
	Forced  bool            `json:"forced"`
	Promote promoteResponse `json:"room_status_update"`
	Alerts  alertsResponse  `json:"checkin_alerts"`
}

func toArrival(a app.Arrival) arrivalResponse {
	return arrivalResponse{
		BookingID: a.BookingID, BookingReference: a.BookingReference, RoomID: a.RoomID, RoomNumber: a.RoomNumber,
		RoomType: string(a.RoomType), CustomerName: a.CustomerName, Guests: a.Guests, SpecialRequests: a.SpecialRequests,
	}
}

func toAlerts(a app.AlertResult) alertsResponse {
	out := alertsResponse{
		Success:  a.Success,
		Error:    a.Error,
		Arrivals: mapSlice(a.Arrivals, toArrival),
		UrgentCheckouts: mapSlice(a.UrgentCheckouts, func(u app.UrgentCheckout) urgentResponse {
			return urgentResponse{
				RoomID: u.RoomID, RoomNumber: u.RoomNumber, Incoming: toArrival(u.Incoming),
				Outgoing: occupantResponse{
					BookingID: u.Outgoing.BookingID, BookingReference: u.Outgoing.BookingReference,
					CustomerName: u.Outgoing.CustomerName, Guests: u.Outgoing.Guests,
					CheckIn:  u.Outgoing.CheckIn.Format(domain.DateLayout),
					CheckOut: u.Outgoing.CheckOut.Format(domain.DateLayout),
				},
			}
		}),
	}
	if !a.Date.IsZero() {
		out.Date = a.Date.Format(domain.DateLayout)
	}
	return out
}

func toRun(res app.RunResult) runResponse {
	return runResponse{
		Date:   res.Date.Format(domain.DateLayout),
		Status: string(res.Status),
		Forced: res.Forced,
		Promote: promoteResponse{
			Success: res.Promote.Success, Error: res.Promote.Error,
			TotalBookings: res.Promote.TotalBookings, UpdatedCount: res.Promote.UpdatedCount,
			Updated: mapSlice(res.Promote.Updated, func(u app.ReservedRoom) reservedRoomResponse {
				return reservedRoomResponse(u)
			}),
		},
		Alerts: toAlerts(res.Alerts),
	}
}

func (h *Handlers) upcomingAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, toAlerts(h.Reconciler.Alerts(r.Context())))
}

func (h *Handlers) reconcileNow(w http.ResponseWriter, r *http.Request) {
	res, err := h.Scheduler.Trigger(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Status == app.RunFailed {
		status = http.StatusInternalServerError
	}
	writeJSON(w, r, status, toRun(res))
}
