// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request data:
// the owner header, JSON bodies, and query parameters for listing and reports.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pembukuan/internal/core"
)

// OwnerHeader carries the authenticated user id set by the upstream gateway.
const OwnerHeader = "X-User-ID"

const maxBodyBytes = 1 << 20

var errMissingOwner = errors.New("missing " + OwnerHeader + " header")

// ownerFrom returns the caller's owner id.
func ownerFrom(r *http.Request) (string, error) {
	owner := sanitizeInput(r.Header.Get(OwnerHeader))
	if owner == "" {
		return "", errMissingOwner
	}
	return owner, nil
}

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// amountField accepts an amount as a JSON string ("12.50") or number (12.5),
// keeping the literal text so it is parsed exactly.
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number or a decimal string")
	}
	*a = amountField(n.String())
	return nil
}

// ParseTransactionFilter reads account_id, date_from, date_to, limit and offset.
func ParseTransactionFilter(query url.Values) (core.TransactionFilter, error) {
	var f core.TransactionFilter
	f.AccountID = strings.TrimSpace(query.Get("account_id"))

	var err error
	if f.DateFrom, err = optionalDate(query, "date_from"); err != nil {
		return f, err
	}
	if f.DateTo, err = optionalDate(query, "date_to"); err != nil {
		return f, err
	}
	if f.Limit, err = optionalInt(query, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = optionalInt(query, "offset"); err != nil {
		return f, err
	}
	return f, nil
}

// requiredDate parses a YYYY-MM-DD query parameter that must be present.
func requiredDate(query url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return core.Date{}, fmt.Errorf("%w: %s is required", core.ErrValidation, key)
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func optionalDate(query url.Values, key string) (core.Date, error) {
	if strings.TrimSpace(query.Get(key)) == "" {
		return core.Date{}, nil
	}
	return requiredDate(query, key)
}

func optionalInt(query url.Values, key string) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, core.ErrInvalidPage)
	}
	if key == "limit" && n == 0 {
		// An explicit zero is out of range, not a request for the default.
		return 0, fmt.Errorf("%s: %w", key, core.ErrInvalidPage)
	}
	return n, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
