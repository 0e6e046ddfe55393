package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_backoffice/internal/adapters/auth"
	"hotel_backoffice/internal/app"
)

type Handlers struct {
	Auth       *auth.Verifier
	Rooms      *app.RoomService
	RoomTypes  *app.RoomTypeService
	Customers  *app.CustomerService
	Bookings   *app.BookingService
	Payments   *app.PaymentService
	Settings   *app.SettingsService
	Reconciler *app.Reconciler
	Scheduler  *app.Scheduler
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(v1 chi.Router) {
		v1.Use(Authenticate(h.Auth))

		v1.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.listRooms)
			r.Post("/", h.createRoom)
			r.Get("/available", h.availableRooms)
			r.Get("/{id:[0-9]+}", h.getRoom)
			r.Put("/{id:[0-9]+}", h.updateRoom)
			r.Patch("/{id:[0-9]+}/status", h.setRoomStatus)
			r.Delete("/{id:[0-9]+}", h.deleteRoom)
		})

		v1.Route("/room-types", func(r chi.Router) {
			r.Get("/", h.listRoomTypes)
			r.Post("/", h.createRoomType)
			r.Post("/seed-defaults", h.seedRoomTypes)
			r.Get("/{id:[0-9]+}", h.getRoomType)
			r.Put("/{id:[0-9]+}", h.updateRoomType)
			r.Delete("/{id:[0-9]+}", h.deleteRoomType)
		})

		v1.Route("/customers", func(r chi.Router) {
			r.Get("/", h.listCustomers)
			r.Post("/", h.createCustomer)
			r.Get("/lookup", h.findCustomer)
			r.Get("/{id:[0-9]+}", h.getCustomer)
			r.Put("/{id:[0-9]+}", h.updateCustomer)
			r.Delete("/{id:[0-9]+}", h.deleteCustomer)
		})

		v1.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.listBookings)
			r.Post("/", h.createBooking)
			r.Get("/check-availability", h.checkAvailability)
			r.Get("/today/checkins", h.todayCheckIns)
			r.Get("/today/checkouts", h.todayCheckOuts)
			r.Get("/alerts/upcoming-checkins", h.upcomingAlerts)
			r.Post("/system/reconcile", h.reconcileNow)
			r.Get("/{id:[0-9]+}", h.getBooking)
			r.Put("/{id:[0-9]+}", h.updateBooking)
			r.Patch("/{id:[0-9]+}/status", h.setBookingStatus)
			r.Post("/{id:[0-9]+}/cancel", h.cancelBooking)
			r.Get("/{id:[0-9]+}/receipt", h.receipt)
		})

		v1.Route("/payments", func(r chi.Router) {
			r.Get("/", h.listPayments)
			r.Post("/", h.createPayment)
			r.Get("/{id:[0-9]+}", h.getPayment)
			r.Patch("/{id:[0-9]+}/status", h.updatePayment)
			r.Post("/{id:[0-9]+}/refund", h.refundPayment)
			r.Get("/booking/{id:[0-9]+}/summary", h.paymentSummary)
			r.Get("/booking/{id:[0-9]+}/history", h.paymentHistory)
			r.Get("/transaction/{txn}", h.getPaymentByTransaction)
		})

		v1.Get("/settings/hotel", h.getSettings)
		v1.Put("/settings/hotel", h.updateSettings)
	})
}
