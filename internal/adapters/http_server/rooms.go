package httpserver

import (
	"net/http"
	"time"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
)

type roomResponse struct {
	ID            int64     `json:"id"`
	RoomNumber    string    `json:"room_number"`
	RoomType      string    `json:"room_type"`
	Status        string    `json:"status"`
	PricePerNight float64   `json:"price_per_night"`
	Capacity      int       `json:"capacity"`
	Floor         int       `json:"floor"`
	Description   *string   `json:"description"`
	Amenities     []string  `json:"amenities"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toRoom(r domain.Room) roomResponse {
	am := r.Amenities
	if am == nil {
		am = []string{}
	}
	return roomResponse{
		ID: r.ID, RoomNumber: r.Number, RoomType: string(r.Type), Status: string(r.Status),
		PricePerNight: r.PricePerNight, Capacity: r.Capacity, Floor: r.Floor,
		Description: r.Description, Amenities: am, IsActive: r.IsActive,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type roomCreateRequest struct {
	RoomNumber    string   `json:"room_number" validate:"required,max=10"`
	RoomType      string   `json:"room_type" validate:"required,max=30"`
	PricePerNight float64  `json:"price_per_night" validate:"gt=0"`
	Capacity      int      `json:"capacity" validate:"gte=1,lte=10"`
	Floor         int      `json:"floor" validate:"gte=0"`
	Description   *string  `json:"description" validate:"omitempty,max=500"`
	Amenities     []string `json:"amenities" validate:"omitempty,dive,max=50"`
	IsActive      *bool    `json:"is_active"`
}

type roomUpdateRequest struct {
	RoomNumber    *string  `json:"room_number" validate:"omitempty,min=1,max=10"`
	RoomType      *string  `json:"room_type" validate:"omitempty,max=30"`
	PricePerNight *float64 `json:"price_per_night" validate:"omitempty,gt=0"`
	Capacity      *int     `json:"capacity" validate:"omitempty,gte=1,lte=10"`
	Floor         *int     `json:"floor" validate:"omitempty,gte=0"`
	Description   *string  `json:"description" validate:"omitempty,max=500"`
	Amenities     []string `json:"amenities" validate:"omitempty,dive,max=50"`
	IsActive      *bool    `json:"is_active"`
}

type roomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied maintenance reserved"`
}

func roomFilter(r *http.Request) (domain.RoomFilter, error) {
	q := &query{r: r}
	var f domain.RoomFilter
	f.Skip, f.Limit = q.page()
	if v := q.str("room_type"); v != "" {
		t := domain.RoomType(v)
		f.Type = &t
	}
	if v := q.str("status"); v != "" {
		s := domain.RoomStatus(v)
		f.Status = &s
	}
	f.Floor = q.intPtr("floor")
	f.Active = q.bool("is_active")
	f.MinPrice, f.MaxPrice = q.float("min_price"), q.float("max_price")
	return f, q.err
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	f, err := roomFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.Rooms.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPage(page.Total, f.Skip, f.Limit, page.Items, toRoom))
}

func (h *Handlers) availableRooms(w http.ResponseWriter, r *http.Request) {
	f, err := roomFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.Rooms.Available(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPage(page.Total, f.Skip, f.Limit, page.Items, toRoom))
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.Rooms.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRoom(room))
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var req roomCreateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	room, err := h.Rooms.Create(r.Context(), identity(r), domain.Room{
		Number: req.RoomNumber, Type: domain.RoomType(req.RoomType), PricePerNight: req.PricePerNight,
		Capacity: req.Capacity, Floor: req.Floor, Description: req.Description, Amenities: req.Amenities,
		IsActive: active,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRoom(room))
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req roomUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p := app.RoomPatch{
		Number: req.RoomNumber, PricePerNight: req.PricePerNight, Capacity: req.Capacity,
		Floor: req.Floor, Description: req.Description, Amenities: req.Amenities, IsActive: req.IsActive,
	}
	if req.RoomType != nil {
		t := domain.RoomType(*req.RoomType)
		p.Type = &t
	}
	room, err := h.Rooms.Update(r.Context(), identity(r), id, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRoom(room))
}

func (h *Handlers) setRoomStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req roomStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := h.Rooms.SetStatus(r.Context(), identity(r), id, domain.RoomStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRoom(room))
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Rooms.Delete(r.Context(), identity(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
