package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/adapters/observability"
	"hotel_backoffice/internal/domain"
)

// ReconcileJob names the idempotency marker row of the daily run.
const ReconcileJob = "daily_room_status"

type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunSkipped   RunStatus = "skipped"
	RunFailed    RunStatus = "failed"
	// RunPartial means arrivals were promoted but the alert scan failed.
	RunPartial RunStatus = "partial"
)

type ReservedRoom struct {
	BookingID        int64
	BookingReference string
	RoomID           int64
	RoomNumber       string
	CustomerName     string
}

type PromoteResult struct {
	Success       bool
	Error         string
	TotalBookings int
	UpdatedCount  int
	Updated       []ReservedRoom
}

// Arrival is a confirmed booking starting on the alert day; its room must not
// be handed to anyone else.
type Arrival struct {
	BookingID        int64
	BookingReference string
	RoomID           int64
	RoomNumber       string
	RoomType         domain.RoomType
	CustomerName     string
	Guests           int
	SpecialRequests  *string
}

// UrgentCheckout pairs a guest still in the room with the arrival replacing them.
type UrgentCheckout struct {
	RoomID     int64
	RoomNumber string
	Outgoing   Occupant
	Incoming   Arrival
}

type Occupant struct {
	BookingID        int64
	BookingReference string
	CustomerName     string
	CheckIn          time.Time
	CheckOut         time.Time
	Guests           int
}

type AlertResult struct {
	Success         bool
	Error           string
	Date            time.Time
	Arrivals        []Arrival
	UrgentCheckouts []UrgentCheckout
}

type RunResult struct {
	Date    time.Time
	Status  RunStatus
	Forced  bool
	Promote PromoteResult
	Alerts  AlertResult
}

// Reconciler is the once-a-day job keeping room status in line with
// confirmed arrivals.
type Reconciler struct {
	store domain.Store
	cache domain.Cache
	clock domain.Clock
}

func NewReconciler(st domain.Store, c domain.Cache, clk domain.Clock) *Reconciler {
	return &Reconciler{store: st, cache: c, clock: clk}
}

// Run performs both daily steps. Unless force is set, a second call on the
// same calendar day is a no-op reporting RunSkipped. The last-run marker is
// read under lock and written in the same transaction as the promotion batch,
// so a failed batch leaves the day open for another attempt and concurrent
// instances cannot both run.
func (r *Reconciler) Run(ctx context.Context, force bool) RunResult {
	today := domain.Today(r.clock)
	res := RunResult{Date: today, Forced: force}

	skipped, promote := r.promoteArrivals(ctx, today, force)
	if skipped {
		res.Status = RunSkipped
		observability.ObserveReconcile(string(res.Status), 0)
		log.Info().Time("date", today).Msg("reconcile skipped: already ran today")
		return res
	}
	res.Promote = promote
	if !promote.Success {
		res.Status = RunFailed
		observability.ObserveReconcile(string(res.Status), 0)
		log.Error().Time("date", today).Str("error", promote.Error).Msg("reconcile failed: promotion rolled back")
		return res
	}
	for _, u := range promote.Updated {
		invalidateRoom(ctx, r.cache, u.RoomID)
	}
	log.Info().
		Time("date", today).
		Int("bookings", promote.TotalBookings).
		Int("reserved", promote.UpdatedCount).
		Msg("reconcile: today's arrivals promoted")

	res.Alerts = r.alertsFor(ctx, today.AddDate(0, 0, 1))
	res.Status = RunCompleted
	if !res.Alerts.Success {
		res.Status = RunPartial
		log.Error().Str("error", res.Alerts.Error).Msg("reconcile: alert scan failed")
	} else {
		ev := log.Info()
		if len(res.Alerts.UrgentCheckouts) > 0 {
			ev = log.Warn()
		}
		ev.Int("arrivals", len(res.Alerts.Arrivals)).
			Int("urgent_checkouts", len(res.Alerts.UrgentCheckouts)).
			Msg("reconcile: tomorrow's arrivals checked")
	}
	observability.ObserveReconcile(string(res.Status), promote.UpdatedCount)
	return res
}

func (r *Reconciler) promoteArrivals(ctx context.Context, today time.Time, force bool) (skipped bool, out PromoteResult) {
	err := r.store.InTx(ctx, func(tx domain.Repos) error {
		out = PromoteResult{}
		last, ok, err := tx.LockLastRun(ctx, ReconcileJob)
		if err != nil {
			return err
		}
		if !force && ok && !domain.DateOf(last).Before(today) {
			skipped = true
			return nil
		}

		bookings, err := tx.GetBookingsByCheckInDate(ctx, today, domain.BookingConfirmed)
		if err != nil {
			return err
		}
		out.TotalBookings = len(bookings)
		for _, b := range bookings {
			room, err := tx.LockRoom(ctx, b.RoomID)
			if err != nil {
				return err
			}
			if room.Status == domain.RoomReserved {
				continue
			}
			if err := tx.UpdateRoomStatus(ctx, room.ID, domain.RoomReserved); err != nil {
				return err
			}
			c, err := tx.GetCustomer(ctx, b.CustomerID)
			if err != nil {
				return err
			}
			out.Updated = append(out.Updated, ReservedRoom{
				BookingID:        b.ID,
				BookingReference: b.Reference,
				RoomID:           room.ID,
				RoomNumber:       room.Number,
				CustomerName:     c.FullName(),
			})
		}
		out.UpdatedCount = len(out.Updated)
		return tx.SetLastRun(ctx, ReconcileJob, today)
	})
	if err != nil {
		return false, PromoteResult{Success: false, Error: err.Error()}
	}
	out.Success = true
	return skipped, out
}

// Alerts reports tomorrow's arrivals without touching any state.
func (r *Reconciler) Alerts(ctx context.Context) AlertResult {
	return r.alertsFor(ctx, domain.Today(r.clock).AddDate(0, 0, 1))
}

func (r *Reconciler) alertsFor(ctx context.Context, day time.Time) AlertResult {
	res, err := r.scanArrivals(ctx, day)
	if err != nil {
		return AlertResult{Date: day, Error: err.Error()}
	}
	res.Success = true
	return res
}

func (r *Reconciler) scanArrivals(ctx context.Context, day time.Time) (AlertResult, error) {
	res := AlertResult{Date: day}
	bookings, err := r.store.GetBookingsByCheckInDate(ctx, day, domain.BookingConfirmed)
	if err != nil {
		return res, err
	}
	for _, b := range bookings {
		room, err := r.store.GetRoom(ctx, b.RoomID)
		if err != nil {
			return res, err
		}
		c, err := r.store.GetCustomer(ctx, b.CustomerID)
		if err != nil {
			return res, err
		}
		arr := Arrival{
			BookingID:        b.ID,
			BookingReference: b.Reference,
			RoomID:           room.ID,
			RoomNumber:       room.Number,
			RoomType:         room.Type,
			CustomerName:     c.FullName(),
			Guests:           b.Guests,
			SpecialRequests:  b.SpecialRequests,
		}
		res.Arrivals = append(res.Arrivals, arr)

		occupants, _, err := r.store.ListBookings(ctx, domain.BookingFilter{
			RoomID:   &room.ID,
			Statuses: []domain.BookingStatus{domain.BookingCheckedIn},
		})
		if err != nil {
			return res, err
		}
		for _, o := range occupants {
			if o.ID == b.ID {
				continue
			}
			oc, err := r.store.GetCustomer(ctx, o.CustomerID)
			if err != nil {
				return res, err
			}
			res.UrgentCheckouts = append(res.UrgentCheckouts, UrgentCheckout{
				RoomID:     room.ID,
				RoomNumber: room.Number,
				Outgoing: Occupant{
					BookingID:        o.ID,
					BookingReference: o.Reference,
					CustomerName:     oc.FullName(),
					CheckIn:          o.CheckIn,
					CheckOut:         o.CheckOut,
					Guests:           o.Guests,
				},
				Incoming: arr,
			})
		}
	}
	return res, nil
}
