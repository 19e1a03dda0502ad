package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mudskip/leaderboard/internal/middleware"
	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reviewDateLayout = "2006-01-02"

type ReviewHandler struct {
	Users   UserRepository
	Reviews ReviewRepository
	Logger  *zap.Logger
	// Now is overridable in tests.
	Now func() time.Time
}

type postReviewRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type postReviewResponse struct {
	Message   string    `json:"message"`
	ReviewID  uint      `json:"reviewId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *ReviewHandler) PostReviewHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())
	ctx := r.Context()

	user, err := h.Users.GetUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusUnauthorized, "User not found.")
			return
		}
		h.internalError(w, "load user", err)
		return
	}

	var req postReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.JSONError(w, http.StatusBadRequest, "Rating must be between 1 and 5.")
		return
	}

	reviewed, err := h.Reviews.HasReviewed(ctx, user.ID)
	if err != nil {
		h.internalError(w, "check review", err)
		return
	}
	if reviewed {
		utils.JSONError(w, http.StatusBadRequest, "You have already submitted a review.")
		return
	}

	review := &models.Review{
		UserID:    user.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: h.now(),
	}
	if err := h.Reviews.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.JSONError(w, http.StatusBadRequest, "You have already submitted a review.")
			return
		}
		h.internalError(w, "create review", err)
		return
	}

	utils.JSON(w, http.StatusOK, postReviewResponse{
		Message:   "Review posted successfully!",
		ReviewID:  review.ID,
		Username:  user.Username,
		CreatedAt: review.CreatedAt,
	})
}

// ListReviewsHandler returns all reviews newest first, dated to the day.
func (h *ReviewHandler) ListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reviews.ListWithAuthors(r.Context())
	if err != nil {
		h.internalError(w, "list reviews", err)
		return
	}

	views := make([]models.ReviewView, 0, len(rows))
	for _, row := range rows {
		views = append(views, models.ReviewView{
			Username:  row.Username,
			Rating:    row.Rating,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt.UTC().Format(reviewDateLayout),
		})
	}
	utils.JSON(w, http.StatusOK, views)
}

func (h *ReviewHandler) DeleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "reviewId")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid review id.")
		return
	}

	if err := h.Reviews.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Review not found.")
			return
		}
		h.internalError(w, "delete review", err)
		return
	}
	utils.JSONMessage(w, http.StatusOK, "Review deleted successfully.")
}

func (h *ReviewHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func (h *ReviewHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("review handler failed", zap.String("op", op), zap.Error(err))
	utils.JSONError(w, http.StatusInternalServerError, "Internal server error.")
}
