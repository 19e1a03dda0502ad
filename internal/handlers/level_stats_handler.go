package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/utils"

	"go.uber.org/zap"
)

type LevelStatsHandler struct {
	Repo   LevelStatsRepository
	Logger *zap.Logger
}

func (h *LevelStatsHandler) ListStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.List(r.Context())
	if err != nil {
		h.internalError(w, "list level stats", err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

// SetCompletionCountHandler overwrites a level's completion count. The body
// is a bare JSON integer. Admin only.
func (h *LevelStatsHandler) SetCompletionCountHandler(w http.ResponseWriter, r *http.Request) {
	levelID, err := utils.URLParamID(r, "levelId")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid level id.")
		return
	}

	var count int
	if err := json.NewDecoder(r.Body).Decode(&count); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Completion count must be an integer.")
		return
	}
	if count < 0 {
		utils.JSONError(w, http.StatusBadRequest, "Completion count must not be negative.")
		return
	}

	if err := h.Repo.SetCount(r.Context(), levelID, count); err != nil {
		h.lookupError(w, "set completion count", err)
		return
	}
	h.Logger.Info("completion count overwritten", zap.Uint("level_id", levelID), zap.Int("count", count))
	utils.JSONMessage(w, http.StatusOK, "Completion count updated successfully.")
}

func (h *LevelStatsHandler) DeleteStatsHandler(w http.ResponseWriter, r *http.Request) {
	levelID, err := utils.URLParamID(r, "levelId")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid level id.")
		return
	}

	if err := h.Repo.Delete(r.Context(), levelID); err != nil {
		h.lookupError(w, "delete level stats", err)
		return
	}
	utils.JSONMessage(w, http.StatusOK, "Statistics deleted successfully.")
}

func (h *LevelStatsHandler) lookupError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repositories.ErrLevelStatsNotFound) {
		utils.JSONError(w, http.StatusNotFound, "No statistics found for this level.")
		return
	}
	h.internalError(w, op, err)
}

func (h *LevelStatsHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("level stats handler failed", zap.String("op", op), zap.Error(err))
	utils.JSONError(w, http.StatusInternalServerError, "Internal server error.")
}
