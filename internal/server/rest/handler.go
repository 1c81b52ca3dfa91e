package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/kvauth/internal/common"
)

const rootGreeting = "The authentication server!"

type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type userResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (s *HTTPServer) root(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, rootGreeting)
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			writeText(w, http.StatusConflict, "User already exists")
		case errors.Is(err, common.ErrInvalidUsername):
			writeText(w, http.StatusBadRequest, err.Error())
		default:
			writeText(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Username: view.Username, Token: view.Token})
}

func (s *HTTPServer) signin(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeText(w, http.StatusUnauthorized, fmt.Sprintf("Requested username %s not found", req.Username))
		case errors.Is(err, common.ErrBadPassword):
			writeText(w, http.StatusUnauthorized, err.Error())
		default:
			writeText(w, http.StatusInternalServerError, "signin failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Username: view.Username, Token: view.Token})
}

func (s *HTTPServer) validate(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := s.users.Validate(r.Context(), req.Token); err != nil {
		writeText(w, http.StatusUnauthorized, common.TokenErrorMessage(err))
		return
	}

	writeText(w, http.StatusOK, "valid")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidRequest, err)
	}
	return nil
}

func writeText(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
