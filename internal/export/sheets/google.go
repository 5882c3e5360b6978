package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"pembukuan/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// valuesAPI is the slice of the Sheets values service the client needs.
type valuesAPI interface {
	get(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
	update(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

type Client struct {
	values        valuesAPI
	spreadsheetID string
	sheetName     string
}

var _ SummaryWriter = (*Client)(nil)

type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// NewClient builds a Sheets client authenticated with a service account.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if strings.TrimSpace(opts.SheetName) == "" {
		return nil, errors.New("missing GOOGLE_SHEET_NAME")
	}
	creds, err := loadCredentials(ctx, opts.CredentialsJSON, opts.CredentialsFile)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", opts.SpreadsheetID, "sheet", opts.SheetName)
	return &Client{
		values:        &serviceValues{svc: svc.Spreadsheets.Values},
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
	}, nil
}

func loadCredentials(ctx context.Context, inline, file string) ([]byte, error) {
	inline = strings.TrimSpace(inline)
	file = strings.TrimSpace(file)
	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// WriteSummary overwrites the owner's row, appending one (and the header on an
// empty sheet) when the owner has not been exported before.
func (c *Client) WriteSummary(ctx context.Context, owner string, s core.FinancialSummary, at time.Time) (string, error) {
	if strings.TrimSpace(owner) == "" {
		return "", core.ErrEmptyOwner
	}
	if c.values == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	rows, err := c.values.get(ctx, c.spreadsheetID, rng)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rng, err)
	}

	if len(rows) == 0 {
		hdr := fmt.Sprintf("%s!A1:H1", c.sheetName)
		if err := c.values.update(ctx, c.spreadsheetID, hdr, [][]any{Header}); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
		rows = [][]any{{Header[0]}}
	}

	row := findOwnerRow(rows, owner)
	if row == 0 {
		row = len(rows) + 1
	}
	ref := fmt.Sprintf("%s!A%d:H%d", c.sheetName, row, row)
	if err := c.values.update(ctx, c.spreadsheetID, ref, [][]any{summaryRow(owner, s, at)}); err != nil {
		return "", fmt.Errorf("update %s: %w", ref, err)
	}
	return ref, nil
}

// findOwnerRow returns the 1-based row holding owner in column A, or 0.
// The header row never matches.
func findOwnerRow(rows [][]any, owner string) int {
	for i, r := range rows {
		if i == 0 || len(r) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(r[0])) == owner {
			return i + 1
		}
	}
	return 0
}

type serviceValues struct {
	svc *gsheet.SpreadsheetsValuesService
}

func (v *serviceValues) get(ctx context.Context, id, rng string) ([][]any, error) {
	resp, err := v.svc.Get(id, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *serviceValues) update(ctx context.Context, id, rng string, values [][]any) error {
	_, err := v.svc.Update(id, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return err
}
