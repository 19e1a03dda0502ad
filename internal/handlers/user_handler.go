package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mudskip/leaderboard/internal/middleware"
	"mudskip/leaderboard/internal/models"
	"mudskip/leaderboard/internal/repositories"
	"mudskip/leaderboard/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler serves registration, login and account management.
type UserHandler struct {
	Repo     UserRepository
	Sessions SessionManager
	Cookies  SessionCookie
	Logger   *zap.Logger
}

type registerRequest struct {
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"passwordHash"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}

type updateUserRequest struct {
	NewEmail    string `json:"newEmail"`
	NewPassword string `json:"newPassword"`
}

func (h *UserHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "User data is null.")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.EmailAddress = strings.TrimSpace(req.EmailAddress)
	if req.Username == "" || req.EmailAddress == "" || req.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Username, email address and password are required.")
		return
	}

	ctx := r.Context()
	if _, err := h.Repo.GetUserByEmail(ctx, req.EmailAddress); err == nil {
		utils.JSONError(w, http.StatusBadRequest, "Email already in use.")
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		h.internalError(w, "lookup email", err)
		return
	}
	if _, err := h.Repo.GetUserByUsername(ctx, req.Username); err == nil {
		utils.JSONError(w, http.StatusBadRequest, "Username already taken.")
		return
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		h.internalError(w, "lookup username", err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, "hash password", err)
		return
	}
	user := &models.User{
		Username:     req.Username,
		Fullname:     req.Fullname,
		EmailAddress: req.EmailAddress,
		PasswordHash: hash,
	}
	if err := h.Repo.CreateUser(ctx, user); err != nil {
		// a concurrent registration can still win the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.JSONError(w, http.StatusBadRequest, "Username or email already taken.")
			return
		}
		h.internalError(w, "create user", err)
		return
	}

	h.Logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	utils.JSONMessage(w, http.StatusOK, "User registered successfully.")
}

// LoginHandler accepts either the username or the email address in the
// username field and starts a new session on success.
func (h *UserHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	ctx := r.Context()
	user, err := h.Repo.GetUserByLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		h.internalError(w, "lookup login", err)
		return
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid username/email or password.")
		return
	}

	if p, ok := middleware.PrincipalFrom(ctx); ok {
		if err := h.Sessions.Destroy(ctx, p.SessionID); err != nil {
			h.Logger.Warn("failed to drop previous session", zap.Error(err))
		}
	}
	sid, err := h.Sessions.Create(ctx, user.ID)
	if err != nil {
		h.internalError(w, "create session", err)
		return
	}
	if err := h.Cookies.Write(w, sid); err != nil {
		h.internalError(w, "write session cookie", err)
		return
	}

	utils.JSON(w, http.StatusOK, loginResponse{Message: "Login successful", UserID: user.ID})
}

func (h *UserHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		if err := h.Sessions.Destroy(r.Context(), p.SessionID); err != nil {
			h.internalError(w, "destroy session", err)
			return
		}
	}
	h.Cookies.Clear(w)
	utils.JSONMessage(w, http.StatusOK, "User logged out successfully.")
}

// UpdateUserHandler changes the caller's email address and/or password.
// Blank fields are left untouched.
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())
	ctx := r.Context()

	if _, err := h.Repo.GetUserByID(ctx, p.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusNotFound, "User not found.")
			return
		}
		h.internalError(w, "load user", err)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	var updates models.User
	if email := strings.TrimSpace(req.NewEmail); email != "" {
		taken, err := h.Repo.EmailTakenByOther(ctx, email, p.UserID)
		if err != nil {
			h.internalError(w, "check email", err)
			return
		}
		if taken {
			utils.JSONError(w, http.StatusBadRequest, "This email address is already taken.")
			return
		}
		updates.EmailAddress = email
	}
	if strings.TrimSpace(req.NewPassword) != "" {
		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			h.internalError(w, "hash password", err)
			return
		}
		updates.PasswordHash = hash
	}

	if updates == (models.User{}) {
		utils.JSONMessage(w, http.StatusOK, "User email and/or password updated successfully.")
		return
	}
	if _, err := h.Repo.UpdateUser(ctx, p.UserID, &updates); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			utils.JSONError(w, http.StatusNotFound, "User not found.")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			utils.JSONError(w, http.StatusBadRequest, "This email address is already taken.")
		default:
			h.internalError(w, "update user", err)
		}
		return
	}

	utils.JSONMessage(w, http.StatusOK, "User email and/or password updated successfully.")
}

// DeleteUserHandler removes a user with their highscores and review. Admin only.
func (h *UserHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLParamID(r, "id")
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id.")
		return
	}

	if err := h.Repo.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusNotFound, "User not found.")
			return
		}
		h.internalError(w, "delete user", err)
		return
	}

	h.Logger.Info("user deleted", zap.Uint("user_id", id))
	utils.JSONMessage(w, http.StatusOK, "User deleted successfully.")
}

func (h *UserHandler) internalError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("user handler failed", zap.String("op", op), zap.Error(err))
	utils.JSONError(w, http.StatusInternalServerError, "Internal server error.")
}
