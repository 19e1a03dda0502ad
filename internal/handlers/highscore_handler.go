package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mudskip/leaderboard/internal/middleware"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/services"
	"mudskip/leaderboard/internal/utils"

	"go.uber.org/zap"
)

type HighscoreHandler struct {
	Levels    LevelRepository
	Scores    HighscoreRepository
	Submitter HighscoreSubmitter
	Logger    *zap.Logger
}

type submitHighscoreRequest struct {
	LevelName      string `json:"levelName"`
	HighscoreValue int    `json:"highscoreValue"`
}

type submitHighscoreResponse struct {
	Message string `json:"message"`
	*services.SubmitResult
}

// LevelHighscoresHandler lists every player's score on one level, best first.
func (h *HighscoreHandler) LevelHighscoresHandler(w http.ResponseWriter, r *http.Request) {
	levelID, err := utils.URLParamID(r, "dotLevel")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid DOT level.")
		return
	}

	ctx := r.Context()
	if _, err := h.Levels.GetByID(ctx, levelID); err != nil {
		if errors.Is(err, repositories.ErrLevelNotFound) {
			utils.JSONError(w, http.StatusNotFound, "The selected DOT level does not exist.")
			return
		}
		h.internalError(w, "load level", err)
		return
	}

	scores, err := h.Scores.ListByLevel(ctx, levelID)
	if err != nil {
		h.internalError(w, "list highscores", err)
		return
	}
	if len(scores) == 0 {
		utils.JSONError(w, http.StatusNotFound, "No highscores found for this DOT level.")
		return
	}
	utils.JSON(w, http.StatusOK, scores)
}

func (h *HighscoreHandler) MyHighscoresHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	best, err := h.Scores.BestByUser(r.Context(), p.UserID)
	if err != nil {
		h.internalError(w, "list personal bests", err)
		return
	}
	if len(best) == 0 {
		utils.JSONError(w, http.StatusNotFound, "No highscores found for this user.")
		return
	}
	utils.JSON(w, http.StatusOK, best)
}

func (h *HighscoreHandler) SubmitHighscoreHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var req submitHighscoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	req.LevelName = strings.TrimSpace(req.LevelName)
	if req.LevelName == "" {
		utils.JSONError(w, http.StatusBadRequest, "Level name is required.")
		return
	}
	if req.HighscoreValue < 0 {
		utils.JSONError(w, http.StatusBadRequest, "Highscore value must not be negative.")
		return
	}

	result, err := h.Submitter.Submit(r.Context(), p.UserID, req.LevelName, req.HighscoreValue)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUserOrLevel) {
			utils.JSONError(w, http.StatusBadRequest, "Invalid user or level.")
			return
		}
		h.internalError(w, "submit highscore", err)
		return
	}

	utils.JSON(w, http.StatusOK, submitHighscoreResponse{
		Message:      "Highscore saved successfully.",
		SubmitResult: result,
	})
}

// DeleteHighscoreHandler removes a single highscore row. Admin only.
func (h *HighscoreHandler) DeleteHighscoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid highscore id.")
		return
	}

	if err := h.Scores.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrHighscoreNotFound) {
			utils.JSONError(w, http.StatusNotFound, "Highscore not found.")
			return
		}
		h.internalError(w, "delete highscore", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HighscoreHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("highscore handler failed", zap.String("op", op), zap.Error(err))
	utils.JSONError(w, http.StatusInternalServerError, "Internal server error.")
}
