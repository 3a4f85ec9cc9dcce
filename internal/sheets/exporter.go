// Package sheets exports transactions to a Google spreadsheet. The export
// pipeline is one-way: the sheet is an external ledger copy, never a source
// of truth.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintwin/internal/core"
)

// TransactionWriter is the outbound port used by the export worker.
type TransactionWriter interface {
	Append(ctx context.Context, userID string, tx core.Transaction) (rowRef string, err error)
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ TransactionWriter = (*Client)(nil)

// New creates a Sheets client authenticated with service account
// credentials, either inline JSON or a file path.
func New(ctx context.Context, spreadsheetID, sheetName, credentialsFile, credentialsJSON string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Transactions"
	}

	creds := []byte(credentialsJSON)
	if len(creds) == 0 {
		if credentialsFile == "" {
			return nil, errors.New("missing service account credentials")
		}
		var err error
		creds, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Append writes one transaction as a new row and returns the updated range
// reference reported by the API.
func (c *Client) Append(ctx context.Context, userID string, tx core.Transaction) (string, error) {
	row := []interface{}{
		tx.Date.String(),
		userID,
		string(tx.Category),
		tx.Amount.Dollars(),
		tx.ID,
	}

	vr := &gsheet.ValueRange{Values: [][]interface{}{row}}
	rng := fmt.Sprintf("%s!A:E", c.sheetName)

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append row: %w", err)
	}
	if resp.Updates == nil {
		return "", nil
	}
	return resp.Updates.UpdatedRange, nil
}
