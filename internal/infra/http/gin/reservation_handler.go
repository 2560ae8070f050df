package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roomly/internal/app/commands"
	"roomly/internal/app/dto"
	"roomly/internal/app/handlers/reservationapp"
	"roomly/internal/app/queries"
	domainactor "roomly/internal/domain/actor"
)

type ReservationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createReservationRequest struct {
	ListingID       string `json:"listing_id" binding:"required"`
	Type            string `json:"type" binding:"required"`
	CheckIn         string `json:"check_in_date" binding:"required"`
	CheckOut        string `json:"check_out_date"`
	TotalPriceCents int64  `json:"total_price_cents"`
	People          int    `json:"num_of_people"`
	Note            string `json:"note"`
	PhoneNumber     string `json:"phone_number"`
}

func (h ReservationHandler) Create(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, ok := parseDate(req.CheckIn)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in_date must be RFC3339 or YYYY-MM-DD"})
		return
	}
	checkOut := time.Time{}
	if req.CheckOut != "" {
		checkOut, ok = parseDate(req.CheckOut)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "check_out_date must be RFC3339 or YYYY-MM-DD"})
			return
		}
	}
	cmd := reservationapp.CreateReservationCommand{
		CommandID:       uuid.NewString(),
		ListingID:       req.ListingID,
		RequesterID:     string(a.ID),
		Type:            req.Type,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		TotalPriceCents: req.TotalPriceCents,
		People:          req.People,
		Note:            req.Note,
		PhoneNumber:     req.PhoneNumber,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[reservationapp.CreateReservationCommand, *reservationapp.CreateReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h ReservationHandler) Transition(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reservationapp.TransitionReservationCommand{
		ReservationID: c.Param("id"),
		TargetStatus:  req.Status,
		Actor:         a,
	}
	result, err := commands.Dispatch[reservationapp.TransitionReservationCommand, dto.ReservationView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) ListMine(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	query := reservationapp.ListRequesterReservationsQuery{RequesterID: string(a.ID)}
	result, err := queries.Ask[reservationapp.ListRequesterReservationsQuery, dto.ReservationCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationHandler) ListOwner(c *gin.Context) {
	a, ok := requireRole(c, domainactor.RoleLandlord, domainactor.RoleAdmin)
	if !ok {
		return
	}
	query := reservationapp.ListOwnerReservationsQuery{OwnerID: string(a.ID)}
	result, err := queries.Ask[reservationapp.ListOwnerReservationsQuery, dto.ReservationCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

var _ ReservationHTTP = ReservationHandler{}
