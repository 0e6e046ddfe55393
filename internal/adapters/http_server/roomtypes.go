package httpserver

import (
	"net/http"
	"time"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
)

type roomTypeResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRoomType(t domain.RoomTypeConfig) roomTypeResponse {
	return roomTypeResponse{
		ID: t.ID, Name: string(t.Name), DisplayName: t.DisplayName, IsActive: t.IsActive,
		CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

type roomTypeListResponse struct {
	Total     int                `json:"total"`
	RoomTypes []roomTypeResponse `json:"room_types"`
}

// roomTypeCreateRequest: name is derived from display_name when omitted.
type roomTypeCreateRequest struct {
	Name        string `json:"name" validate:"omitempty,max=30"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

type roomTypeUpdateRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active"`
}

func (h *Handlers) listRoomTypes(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	all := q.bool("include_inactive")
	if q.err != nil {
		writeError(w, r, q.err)
		return
	}
	types, err := h.RoomTypes.List(r.Context(), all != nil && *all)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, roomTypeListResponse{Total: len(types), RoomTypes: mapSlice(types, toRoomType)})
}

func (h *Handlers) getRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.RoomTypes.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRoomType(t))
}

func (h *Handlers) createRoomType(w http.ResponseWriter, r *http.Request) {
	var req roomTypeCreateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.RoomTypes.Create(r.Context(), identity(r), domain.RoomType(req.Name), req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRoomType(t))
}

func (h *Handlers) updateRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req roomTypeUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.RoomTypes.Update(r.Context(), identity(r), id, app.RoomTypePatch{DisplayName: req.DisplayName, IsActive: req.IsActive})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRoomType(t))
}

func (h *Handlers) deleteRoomType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.RoomTypes.Delete(r.Context(), identity(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) seedRoomTypes(w http.ResponseWriter, r *http.Request) {
	n, err := h.RoomTypes.SeedDefaults(r.Context(), identity(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"message": "Default room types seeded", "added": n})
}
