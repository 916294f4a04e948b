package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
)

const maxUploadBytes = 10 << 20

func (a *App) Profile(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}
	a.json(w, http.StatusOK, user)
}

func (a *App) ProfilePhotoUpdate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "no photo provided")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read photo")
		return
	}
	if len(data) > maxUploadBytes {
		a.error(w, http.StatusBadRequest, "bad_request", "photo too large")
		return
	}

	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update profile photo")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	key := "profiles/" + userID + "/" + uuid.NewString() + uploadExt(header.Filename)
	storedKey, err := a.Media.Write(ctx, key, data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("store profile photo failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store photo")
		return
	}
	photo := &domain.MediaReference{StorageID: storedKey, URL: a.Media.URL(storedKey)}

	if err := a.Users.UpdateProfilePhoto(r.Context(), userID, photo); err != nil {
		// the new upload is orphaned unless removed
		if rmErr := a.Media.Remove(ctx, storedKey); rmErr != nil {
			a.Logger.Warn().Err(rmErr).Str("key", storedKey).Msg("cleanup of failed upload left orphan")
		}
		a.Logger.Error().Err(err).Msg("update profile photo failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update profile photo")
		return
	}

	if old := user.ProfilePhoto; old != nil && old.StorageID != "" {
		if err := a.Media.Remove(ctx, old.StorageID); err != nil {
			a.Logger.Warn().Err(err).Str("key", old.StorageID).Msg("failed to remove previous profile photo")
		}
	}

	user.ProfilePhoto = photo
	a.json(w, http.StatusOK, map[string]any{
		"message": "profile photo updated successfully",
		"photo":   photo,
		"user":    user,
	})
}

func uploadExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ""
	}
}
