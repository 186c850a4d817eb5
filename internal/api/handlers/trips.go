package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type TripHandler struct {
	Planner *services.TripPlanner
	Repo    ports.TripRepository
}

// Collection serves /trips: POST plans and stores a trip, GET lists them.
func (h *TripHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

// Item serves /trips/{id}.
func (h *TripHandler) Item(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid trip id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		methodNotAllowed(w, r, "GET, DELETE")
	}
}

func (h *TripHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.CurrentCycleUsed == nil {
		writeError(w, r, http.StatusBadRequest, "current_cycle_used is required")
		return
	}

	var startDate time.Time
	if s := strings.TrimSpace(req.StartDate); s != "" {
		d, err := time.Parse(dto.DateLayout, s)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		startDate = d
	}

	trip, err := h.Planner.PlanTrip(r.Context(), services.PlanTripRequest{
		Trip: domain.TripRequest{
			CurrentLocation:  req.CurrentLocation,
			PickupLocation:   req.PickupLocation,
			DropoffLocation:  req.DropoffLocation,
			CurrentCycleUsed: float64(*req.CurrentCycleUsed),
		},
		StartDate: startDate,
	})
	switch {
	case errors.Is(err, services.ErrInvalidTrip):
		writeError(w, r, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "plan trip: "))
		return
	case errors.Is(err, domain.ErrInvalidSchedule):
		writeError(w, r, http.StatusUnprocessableEntity, strings.TrimPrefix(err.Error(), "plan trip: schedule: "))
		return
	case err != nil:
		h.internalError(w, r, "plan trip failed", err)
		return
	}

	w.Header().Set("Location", "/trips/"+trip.ID.String())
	writeJSON(w, r, http.StatusCreated, dto.NewTripResponse(trip))
}

func (h *TripHandler) list(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Repo.ListTrips(r.Context())
	if err != nil {
		h.internalError(w, r, "list trips failed", err)
		return
	}

	res := dto.ListTripResponse{Trips: make([]dto.TripResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, dto.NewTripResponse(t))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TripHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	trip, err := h.Repo.GetTrip(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "get trip failed", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewTripResponse(trip))
}

func (h *TripHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	err := h.Repo.DeleteTrip(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		h.internalError(w, r, "delete trip failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TripHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logrus.WithField("req_id", obs.RequestID(r.Context())).WithError(err).Error(msg)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}
