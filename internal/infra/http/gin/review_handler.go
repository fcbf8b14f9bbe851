package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentcam/internal/app/commands"
	"rentcam/internal/app/dto"
	reviewapp "rentcam/internal/app/handlers/reviews"
	"rentcam/internal/app/queries"
)

type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type submitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

func (h ReviewHandler) List(c *gin.Context) {
	q := reviewapp.ListReviewsQuery{
		ListingID: c.Param("id"),
		Limit:     parseInt(c.Query("limit")),
		Offset:    parseInt(c.Query("offset")),
	}
	page, err := queries.Ask[reviewapp.ListReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err, "list reviews", "listing_id", q.ListingID)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h ReviewHandler) Submit(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reviewapp.SubmitReviewCommand{
		AuthorID:  p.ID,
		ListingID: c.Param("id"),
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	review, err := commands.Dispatch[reviewapp.SubmitReviewCommand, *dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err, "submit review", "listing_id", cmd.ListingID, "author_id", p.ID)
		return
	}
	c.JSON(http.StatusCreated, review)
}

var _ ReviewHTTP = ReviewHandler{}
