package http

import (
	"net/http"

	"pembukuan/internal/core"
)

type createAccountRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Code     string `json:"code"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request, owner string) {
	accounts, err := s.accounts.ListAccounts(r.Context(), owner)
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().JSON(map[string]any{"accounts": toAccounts(accounts)}).Write(w)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request, owner string) {
	var req createAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	a, err := s.accounts.CreateAccount(r.Context(), owner, core.AccountInput{
		Name:     sanitizeInput(req.Name),
		Category: req.Category,
		Code:     sanitizeInput(req.Code),
	})
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(toAccount(a)).Write(w)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request, owner string) {
	a, err := s.accounts.GetAccount(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().JSON(toAccount(a)).Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, owner string) {
	if err := s.accounts.DeleteAccount(r.Context(), owner, r.PathValue("id")); err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

// handleBootstrap creates the default chart of accounts on first use.
func (s *Server) handleBootstrap(w http.ResponseWriter, r *http.Request, owner string) {
	created, err := s.accounts.EnsureDefaultAccounts(r.Context(), owner)
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	accounts, err := s.accounts.ListAccounts(r.Context(), owner)
	if err != nil {
		ErrorFrom(r, err).Write(w)
		return
	}
	NewResponse().JSON(map[string]any{
		"created":  created,
		"accounts": toAccounts(accounts),
	}).Write(w)
}
