package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/adapters/observability"
	"hotel_backoffice/internal/domain"
)

type BookingService struct {
	store      domain.Store
	cache      domain.Cache
	clock      domain.Clock
	taxPercent float64
}

func NewBookingService(st domain.Store, c domain.Cache, clk domain.Clock, defaultTaxPercent float64) *BookingService {
	return &BookingService{store: st, cache: c, clock: clk, taxPercent: defaultTaxPercent}
}

type CreateBookingInput struct {
	CustomerID      int64
	RoomID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Discount        float64
	TaxPercent      *float64 // nil uses the configured default
	SpecialRequests *string
}

// UpdateBookingInput carries only the fields being changed.
type UpdateBookingInput struct {
	CheckIn         *time.Time
	CheckOut        *time.Time
	Guests          *int
	Discount        *float64
	TaxPercent      *float64
	SpecialRequests *string
}

type Availability struct {
	Available   bool
	Message     string
	Conflicting []string
}

type Receipt struct {
	BookingReference  string
	CustomerName      string
	CustomerEmail     string
	RoomNumber        string
	RoomType          domain.RoomType
	CheckIn           time.Time
	CheckOut          time.Time
	Nights            int
	Guests            int
	RoomPricePerNight float64
	Subtotal          float64
	Discount          float64
	Tax               float64
	FinalAmount       float64
	TotalPaid         float64
	BalanceDue        float64
	Status            domain.BookingStatus
	CreatedAt         time.Time
	SpecialRequests   *string
}

// Create validates the stay and inserts a pending booking. The room row is
// locked for the duration, so two requests for the same room cannot both pass
// the overlap check. Room status is not touched: a room is reserved only on
// its arrival day, by confirmation or by the daily reconciler.
func (s *BookingService) Create(ctx context.Context, who domain.Identity, in CreateBookingInput) (domain.Booking, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Booking{}, err
	}
	now := s.clock.Now()
	today := domain.DateOf(now)
	tax := s.taxPercent
	if in.TaxPercent != nil {
		tax = *in.TaxPercent
	}
	stay := domain.Stay{CheckIn: domain.DateOf(in.CheckIn), CheckOut: domain.DateOf(in.CheckOut), Guests: in.Guests}

	var out domain.Booking
	err := s.store.InTx(ctx, func(tx domain.Repos) error {
		if _, err := tx.GetCustomer(ctx, in.CustomerID); err != nil {
			return err
		}
		room, err := tx.LockRoom(ctx, in.RoomID)
		if err != nil {
			return err
		}
		existing, err := tx.FindOverlappingBookings(ctx, room.ID, stay.Range(), 0)
		if err != nil {
			return err
		}
		if err := domain.ValidateBooking(room, stay, today, existing); err != nil {
			return err
		}
		nights := domain.Nights(stay.CheckIn, stay.CheckOut)
		q, err := domain.Price(room.PricePerNight, nights, in.Discount, tax)
		if err != nil {
			return err
		}
		b := domain.Booking{
			Reference:       newBookingReference(now),
			CustomerID:      in.CustomerID,
			RoomID:          room.ID,
			CreatedBy:       who.UserID,
			CheckIn:         stay.CheckIn,
			CheckOut:        stay.CheckOut,
			Guests:          in.Guests,
			RoomPrice:       room.PricePerNight,
			TaxPercent:      tax,
			Status:          domain.BookingPending,
			SpecialRequests: in.SpecialRequests,
		}
		b.ApplyQuote(nights, q)
		if err := tx.CreateBooking(ctx, &b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	log.Info().Str("ref", out.Reference).Int64("room", out.RoomID).Msg("booking created")
	return out, nil
}

// Update edits a non-terminal booking. Changed dates or guest count are
// re-validated against the room's other bookings; pricing is recomputed from
// the nightly rate captured at creation. The new final amount may not drop
// below what is already paid or pending, and moving a confirmed arrival onto
// or off today reserves or releases the room like a confirmation would.
func (s *BookingService) Update(ctx context.Context, who domain.Identity, id int64, in UpdateBookingInput) (domain.Booking, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Booking{}, err
	}
	today := domain.Today(s.clock)

	var (
		out         domain.Booking
		roomChanged bool
	)
	pre, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	err = s.store.InTx(ctx, func(tx domain.Repos) error {
		b, room, err := lockBookingAndRoom(ctx, tx, id, pre.RoomID)
		if err != nil {
			return err
		}
		if b.Status.Terminal() {
			return domain.Conflict(domain.CodeBookingClosed, "cannot modify %s booking", b.Status)
		}

		stay := domain.Stay{CheckIn: b.CheckIn, CheckOut: b.CheckOut, Guests: b.Guests, ExcludeID: b.ID}
		if in.CheckIn != nil {
			stay.CheckIn = domain.DateOf(*in.CheckIn)
		}
		if in.CheckOut != nil {
			stay.CheckOut = domain.DateOf(*in.CheckOut)
		}
		if in.Guests != nil {
			stay.Guests = *in.Guests
		}
		datesChanged := !stay.CheckIn.Equal(b.CheckIn) || !stay.CheckOut.Equal(b.CheckOut)

		if datesChanged || stay.Guests != b.Guests {
			// An unchanged check-in may already lie in the past (guest in house).
			ref := today
			if stay.CheckIn.Equal(b.CheckIn) && b.CheckIn.Before(today) {
				ref = b.CheckIn
			}
			existing, err := tx.FindOverlappingBookings(ctx, room.ID, stay.Range(), b.ID)
			if err != nil {
				return err
			}
			if err := domain.ValidateBooking(room, stay, ref, existing); err != nil {
				return err
			}
		}

		discount, tax := b.Discount, b.TaxPercent
		if in.Discount != nil {
			discount = *in.Discount
		}
		if in.TaxPercent != nil {
			tax = *in.TaxPercent
		}
		nights := domain.Nights(stay.CheckIn, stay.CheckOut)
		q, err := domain.Price(b.RoomPrice, nights, discount, tax)
		if err != nil {
			return err
		}

		oldCheckIn := b.CheckIn
		b.CheckIn, b.CheckOut, b.Guests, b.TaxPercent = stay.CheckIn, stay.CheckOut, stay.Guests, tax
		b.ApplyQuote(nights, q)
		if in.SpecialRequests != nil {
			b.SpecialRequests = in.SpecialRequests
		}

		ps, _, err := tx.ListPayments(ctx, domain.PaymentFilter{BookingID: &b.ID})
		if err != nil {
			return err
		}
		claimed := sumWhere(ps, domain.PaymentCompleted) + sumWhere(ps, domain.PaymentPending)
		if claimed > b.FinalAmount+amountTolerance {
			return domain.Conflict(domain.CodeOverpayment,
				"booking %s already has %.2f paid or pending, more than the new total %.2f", b.Reference, claimed, b.FinalAmount)
		}

		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		if rs := domain.RescheduleRoomStatus(b.Status, oldCheckIn, b.CheckIn, room.Status, today); rs != nil {
			if err := tx.UpdateRoomStatus(ctx, room.ID, *rs); err != nil {
				return err
			}
			roomChanged = true
		}
		out = b
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	if roomChanged {
		invalidateRoom(ctx, s.cache, out.RoomID)
	}
	log.Info().Str("ref", out.Reference).Bool("room_changed", roomChanged).Msg("booking updated")
	return out, nil
}

// Transition moves a booking through its lifecycle and applies the room
// status side effect in the same transaction.
func (s *BookingService) Transition(ctx context.Context, who domain.Identity, id int64, to domain.BookingStatus) (domain.Booking, error) {
	if err := domain.Require(who, domain.Writers...); err != nil {
		return domain.Booking{}, err
	}
	now := s.clock.Now()
	today := domain.DateOf(now)

	var (
		out         domain.Booking
		from        domain.BookingStatus
		roomChanged bool
	)
	pre, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	err = s.store.InTx(ctx, func(tx domain.Repos) error {
		b, room, err := lockBookingAndRoom(ctx, tx, id, pre.RoomID)
		if err != nil {
			return err
		}
		from = b.Status
		eff, err := domain.PlanTransition(b, room.Status, to, today, now)
		if err != nil {
			return err
		}
		if err := tx.UpdateBookingStatus(ctx, b.ID, eff.To, eff.CheckedInAt, eff.CheckedOutAt); err != nil {
			return err
		}
		if eff.RoomStatus != nil && *eff.RoomStatus != room.Status {
			if err := tx.UpdateRoomStatus(ctx, room.ID, *eff.RoomStatus); err != nil {
				return err
			}
			roomChanged = true
		}
		eff.Apply(&b)
		out = b
		return nil
	})
	observability.ObserveTransition(string(from), string(to), err)
	if err != nil {
		return domain.Booking{}, err
	}
	if roomChanged {
		invalidateRoom(ctx, s.cache, out.RoomID)
	}
	log.Info().Str("ref", out.Reference).Str("from", string(from)).Str("to", string(to)).Msg("booking status changed")
	return out, nil
}

// Cancel is Transition to cancelled.
func (s *BookingService) Cancel(ctx context.Context, who domain.Identity, id int64) (domain.Booking, error) {
	return s.Transition(ctx, who, id, domain.BookingCancelled)
}

func (s *BookingService) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (Availability, error) {
	in, out := domain.DateOf(checkIn), domain.DateOf(checkOut)
	if !out.After(in) {
		return Availability{}, domain.Validation(domain.CodeInvalidRange, "check-out date must be after check-in date")
	}
	if _, err := s.store.GetRoom(ctx, roomID); err != nil {
		return Availability{}, err
	}
	rng := domain.DateRange{Start: in, End: out}
	existing, err := s.store.FindOverlappingBookings(ctx, roomID, rng, 0)
	if err != nil {
		return Availability{}, err
	}
	if clash := domain.Conflicting(roomID, rng, 0, existing); len(clash) > 0 {
		return Availability{Message: "Room is not available for the selected dates", Conflicting: domain.ConflictRefs(clash)}, nil
	}
	return Availability{Available: true, Message: "Room is available for the selected dates"}, nil
}

func (s *BookingService) Get(ctx context.Context, id int64) (domain.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

func (s *BookingService) List(ctx context.Context, f domain.BookingFilter) (Page[domain.Booking], error) {
	f.Limit = clampLimit(f.Limit)
	items, total, err := s.store.ListBookings(ctx, f)
	if err != nil {
		return Page[domain.Booking]{}, err
	}
	return Page[domain.Booking]{Total: total, Items: items}, nil
}

// TodayCheckIns lists pending or confirmed bookings arriving today.
func (s *BookingService) TodayCheckIns(ctx context.Context) ([]domain.Booking, error) {
	return s.store.GetBookingsByCheckInDate(ctx, domain.Today(s.clock), domain.BookingPending, domain.BookingConfirmed)
}

// TodayCheckOuts lists in-house bookings departing today.
func (s *BookingService) TodayCheckOuts(ctx context.Context) ([]domain.Booking, error) {
	return s.store.GetBookingsByCheckOutDate(ctx, domain.Today(s.clock), domain.BookingCheckedIn)
}

func (s *BookingService) Receipt(ctx context.Context, id int64) (Receipt, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	c, err := s.store.GetCustomer(ctx, b.CustomerID)
	if err != nil {
		return Receipt{}, err
	}
	r, err := s.store.GetRoom(ctx, b.RoomID)
	if err != nil {
		return Receipt{}, err
	}
	payments, _, err := s.store.ListPayments(ctx, domain.PaymentFilter{BookingID: &b.ID})
	if err != nil {
		return Receipt{}, err
	}
	sum := summarize(b, payments)
	return Receipt{
		BookingReference:  b.Reference,
		CustomerName:      c.FullName(),
		CustomerEmail:     c.Email,
		RoomNumber:        r.Number,
		RoomType:          r.Type,
		CheckIn:           b.CheckIn,
		CheckOut:          b.CheckOut,
		Nights:            b.Nights,
		Guests:            b.Guests,
		RoomPricePerNight: b.RoomPrice,
		Subtotal:          b.TotalAmount - b.Discount,
		Discount:          b.Discount,
		Tax:               b.Tax,
		FinalAmount:       b.FinalAmount,
		TotalPaid:         sum.TotalPaid,
		BalanceDue:        sum.BalanceDue,
		Status:            b.Status,
		CreatedAt:         b.CreatedAt,
		SpecialRequests:   b.SpecialRequests,
	}, nil
}

// lockBookingAndRoom takes the room lock first, then the booking lock; every
// booking write goes through the same order. roomID comes from a read made
// before the transaction; a booking never changes room.
func lockBookingAndRoom(ctx context.Context, tx domain.Repos, id, roomID int64) (domain.Booking, domain.Room, error) {
	room, err := tx.LockRoom(ctx, roomID)
	if err != nil {
		return domain.Booking{}, domain.Room{}, err
	}
	b, err := tx.LockBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, domain.Room{}, err
	}
	if b.RoomID != roomID {
		return domain.Booking{}, domain.Room{}, domain.Conflict(domain.CodeBusy, "booking %s changed concurrently, retry", b.Reference)
	}
	return b, room, nil
}
