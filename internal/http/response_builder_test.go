package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pembukuan/internal/core"
)

func TestResponseBuilderJSON(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().Status(http.StatusCreated).Header("X-Custom", "v").JSON(map[string]int{"n": 1}).Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Header().Get("Content-Type") != "application/json" || w.Header().Get("X-Custom") != "v" {
		t.Errorf("unexpected headers %v", w.Header())
	}
	if w.Body.String() != `{"n":1}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestResponseBuilderEncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().JSON(map[string]any{"bad": make(chan int)}).Write(w)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unencodable body, got %d", w.Code)
	}
}

func TestErrorFrom(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{core.ErrInvalidAmount, http.StatusUnprocessableEntity, core.KindValidation},
		{fmt.Errorf("create: %w", core.ErrAccountNotFound), http.StatusNotFound, core.KindNotFound},
		{core.ErrAccountInUse, http.StatusConflict, core.KindConflict},
		{errors.Join(core.ErrBalanceContention, errors.New("database is locked")), http.StatusConflict, core.KindConflict},
		{errors.New("disk I/O error"), http.StatusInternalServerError, core.KindInternal},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		ErrorFrom(r, tt.err).Write(w)
		if w.Code != tt.status {
			t.Errorf("%v: status %d, want %d", tt.err, w.Code, tt.status)
		}
		body := decode[errorBody](t, w)
		if body.Error != tt.kind {
			t.Errorf("%v: kind %q, want %q", tt.err, body.Error, tt.kind)
		}
		if tt.kind == core.KindInternal && body.Message != "internal server error" {
			t.Errorf("internal error detail leaked: %q", body.Message)
		}
	}
}

func TestErrorFromCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	ErrorFrom(r, fmt.Errorf("list: %w", context.Canceled)).Write(w)
	if body := decode[errorBody](t, w); body.Message != "request cancelled" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestFileResponse(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().File("application/pdf", "report.pdf", []byte("%PDF-1.3")).Write(w)
	if w.Header().Get("Content-Disposition") != `attachment; filename="report.pdf"` {
		t.Fatalf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
	if w.Body.String() != "%PDF-1.3" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}
