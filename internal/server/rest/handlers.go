package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/common"
	"github.com/dmitrijs2005/travelbook/internal/server/auth"
	"github.com/dmitrijs2005/travelbook/internal/timex"
	"github.com/gorilla/mux"
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", common.ErrorValidation)
	}
	return nil
}

// callerID is always present behind requireAuth.
func callerID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", res.User.ID)
	writeJSON(w, http.StatusCreated, authResponse{
		User:        newUserResponse(res.User),
		AccessToken: res.AccessToken,
		Message:     "Registration Successful",
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:        newUserResponse(res.User),
		AccessToken: res.AccessToken,
		Message:     "Login Successful",
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.GetUser(r.Context(), callerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": newUserResponse(u)})
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, true, "image is too large")
			return
		}
		writeMessage(w, http.StatusBadRequest, true, "No image uploaded")
		return
	}
	defer file.Close()

	url, err := s.media.Upload(r.Context(), header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	if err := s.media.Delete(r.Context(), r.URL.Query().Get("imageUrl")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Image deleted successfully"})
}

func (s *Server) addStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	story, err := s.stories.Create(r.Context(), callerID(r), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, storyEnvelope{Story: newStoryResponse(story), Message: "Added Successfully"})
}

func (s *Server) listStories(w http.ResponseWriter, r *http.Request) {
	list, err := s.stories.List(r.Context(), callerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, storiesEnvelope{Stories: newStoryList(list)})
}

func (s *Server) editStory(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	story, err := s.stories.Edit(r.Context(), callerID(r), mux.Vars(r)["id"], req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, storyEnvelope{Story: newStoryResponse(story), Message: "Update Successful"})
}

func (s *Server) deleteStory(w http.ResponseWriter, r *http.Request) {
	if err := s.stories.Delete(r.Context(), callerID(r), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Travel story deleted successfully"})
}

func (s *Server) updateFavourite(w http.ResponseWriter, r *http.Request) {
	var req favouriteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.IsFavourite == nil {
		s.writeError(w, r, fmt.Errorf("%w: isFavourite is required", common.ErrorValidation))
		return
	}

	story, err := s.stories.SetFavourite(r.Context(), callerID(r), mux.Vars(r)["id"], *req.IsFavourite)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, storyEnvelope{Story: newStoryResponse(story), Message: "Update Successful"})
}

func (s *Server) searchStories(w http.ResponseWriter, r *http.Request) {
	list, err := s.stories.Search(r.Context(), callerID(r), r.URL.Query().Get("query"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, storiesEnvelope{Stories: newStoryList(list)})
}

func (s *Server) filterStories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseDateParam(q.Get("startDate"), "startDate")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	end, err := parseDateParam(q.Get("endDate"), "endDate")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.stories.FilterByDate(r.Context(), callerID(r), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, storiesEnvelope{Stories: newStoryList(list)})
}

func parseDateParam(v, name string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", common.ErrorValidation, name)
	}
	t, err := timex.ParseEpochMillis(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be epoch milliseconds", common.ErrorValidation, name)
	}
	return t, nil
}
