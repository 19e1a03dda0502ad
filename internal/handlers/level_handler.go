package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/utils"

	"go.uber.org/zap"
)

type LevelHandler struct {
	Repo   LevelRepository
	Logger *zap.Logger
}

func (h *LevelHandler) ListLevelsHandler(w http.ResponseWriter, r *http.Request) {
	levels, err := h.Repo.List(r.Context())
	if err != nil {
		h.internalError(w, "list levels", err)
		return
	}
	if len(levels) == 0 {
		utils.JSONError(w, http.StatusNotFound, "No levels found.")
		return
	}
	utils.JSON(w, http.StatusOK, levels)
}

func (h *LevelHandler) GetLevelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid level id.")
		return
	}

	level, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		h.lookupError(w, id, err)
		return
	}
	utils.JSON(w, http.StatusOK, level)
}

func (h *LevelHandler) CreateLevelHandler(w http.ResponseWriter, r *http.Request) {
	var level models.Level
	if err := json.NewDecoder(r.Body).Decode(&level); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Level data is null.")
		return
	}
	level.ID = 0
	level.Name = strings.TrimSpace(level.Name)
	if level.Name == "" {
		utils.JSONError(w, http.StatusBadRequest, "Level name is required.")
		return
	}

	if err := h.Repo.Create(r.Context(), &level); err != nil {
		h.internalError(w, "create level", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/level/%d", level.ID))
	utils.JSON(w, http.StatusCreated, level)
}

// UpdateLevelHandler renames a level. The id in the body must match the path.
func (h *LevelHandler) UpdateLevelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid level id.")
		return
	}

	var level models.Level
	if err := json.NewDecoder(r.Body).Decode(&level); err != nil || level.ID != id {
		utils.JSONError(w, http.StatusBadRequest, "Level data is invalid.")
		return
	}
	name := strings.TrimSpace(level.Name)
	if name == "" {
		utils.JSONError(w, http.StatusBadRequest, "Level name is required.")
		return
	}

	if err := h.Repo.Rename(r.Context(), id, name); err != nil {
		h.lookupError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteLevelHandler removes a level together with its highscores and stats.
func (h *LevelHandler) DeleteLevelHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid level id.")
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		h.lookupError(w, id, err)
		return
	}
	h.Logger.Info("level deleted", zap.Uint("level_id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *LevelHandler) lookupError(w http.ResponseWriter, id uint, err error) {
	if errors.Is(err, repositories.ErrLevelNotFound) {
		utils.JSONError(w, http.StatusNotFound, fmt.Sprintf("Level with ID %d not found.", id))
		return
	}
	h.internalError(w, "level lookup", err)
}

func (h *LevelHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("level handler failed", zap.String("op", op), zap.Error(err))
	utils.JSONError(w, http.StatusInternalServerError, "Internal server error.")
}
