package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roomly/internal/app/commands"
	"roomly/internal/app/dto"
	"roomly/internal/app/handlers/listingapp"
	"roomly/internal/app/queries"
	domainactor "roomly/internal/domain/actor"
)

// ListingHandler wires listing commands and queries to HTTP.
type ListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

// Search responds with a filtered, enriched page of listings. Anonymous
// callers get no favorite flag.
func (h ListingHandler) Search(c *gin.Context) {
	viewerID := ""
	if a, ok := currentActor(c); ok {
		viewerID = string(a.ID)
	}
	query := listingapp.SearchListingsQuery{
		Keyword:       c.Query("search"),
		PriceMinCents: parseInt64(c.Query("min_price")),
		PriceMaxCents: parseInt64(c.Query("max_price")),
		Status:        c.Query("status"),
		Sort:          c.Query("sort"),
		Page:          parseInt(c.Query("page")),
		Limit:         parseInt(c.Query("limit")),
		ViewerID:      viewerID,
	}
	result, err := queries.Ask[listingapp.SearchListingsQuery, dto.ListingPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Get(c *gin.Context) {
	viewerID := ""
	if a, ok := currentActor(c); ok {
		viewerID = string(a.ID)
	}
	query := listingapp.GetListingQuery{
		ListingID: c.Param("id"),
		ViewerID:  viewerID,
	}
	result, err := queries.Ask[listingapp.GetListingQuery, dto.ListingView](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type listingPayload struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Status      string `json:"status"`
}

func (h ListingHandler) Create(c *gin.Context) {
	a, ok := requireRole(c, domainactor.RoleLandlord, domainactor.RoleAdmin)
	if !ok {
		return
	}
	var req listingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.CreateListingCommand{
		CommandID:       uuid.NewString(),
		OwnerID:         string(a.ID),
		Name:            req.Name,
		Address:         req.Address,
		Description:     req.Description,
		PriceCents:      req.PriceCents,
		Status:          req.Status,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *listingapp.CreateListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ListingHandler) Update(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	var req listingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.UpdateListingCommand{
		ListingID:   c.Param("id"),
		Actor:       a,
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Status:      req.Status,
	}
	result, err := commands.Dispatch[listingapp.UpdateListingCommand, dto.ListingView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Delete(c *gin.Context) {
	a, ok := requireActor(c)
	if !ok {
		return
	}
	cmd := listingapp.DeleteListingCommand{
		ListingID: c.Param("id"),
		Actor:     a,
	}
	if _, err := commands.Dispatch[listingapp.DeleteListingCommand, *listingapp.DeleteListingResult](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseInt64(raw string) int64 {
	value, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if value < 0 {
		return 0
	}
	return value
}

var _ ListingHTTP = ListingHandler{}
