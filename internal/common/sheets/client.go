// internal/common/sheets/client.go
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// ValueRange addresses one contiguous cell range and the values to write
// into it.
type ValueRange struct {
	Range  string
	Values [][]string
}

// ValuesAPI is the slice of the spreadsheet service the record store needs.
// The production implementation is Client; tests substitute an in-memory
// fake.
type ValuesAPI interface {
	// GetRange fetches a bounded range from a spreadsheet. Rows are sparse:
	// trailing empty cells are omitted by the service.
	GetRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)

	// BatchUpdate writes the given ranges in a single round-trip and
	// returns the number of updated cells.
	BatchUpdate(ctx context.Context, spreadsheetID string, data []ValueRange) (int, error)

	// FirstTabName returns the title of the first sheet tab in the
	// spreadsheet.
	FirstTabName(ctx context.Context, spreadsheetID string) (string, error)
}

// Client implements ValuesAPI against the Google Sheets API.
type Client struct {
	svc *sheetsapi.Service
}

// NewClient creates a Sheets client from a service account credentials file.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{svc: svc}, nil
}

func (c *Client) GetRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets read %s!%s failed: %w", spreadsheetID, readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (c *Client) BatchUpdate(ctx context.Context, spreadsheetID string, data []ValueRange) (int, error) {
	payload := make([]*sheetsapi.ValueRange, 0, len(data))
	for _, vr := range data {
		values := make([][]interface{}, 0, len(vr.Values))
		for _, row := range vr.Values {
			converted := make([]interface{}, 0, len(row))
			for _, cell := range row {
				converted = append(converted, cell)
			}
			values = append(values, converted)
		}
		payload = append(payload, &sheetsapi.ValueRange{
			Range:  vr.Range,
			Values: values,
		})
	}

	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             payload,
	}

	resp, err := c.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheets batch update %s failed: %w", spreadsheetID, err)
	}

	return int(resp.TotalUpdatedCells), nil
}

func (c *Client) FirstTabName(ctx context.Context, spreadsheetID string) (string, error) {
	resp, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("sheets metadata fetch %s failed: %w", spreadsheetID, err)
	}

	if len(resp.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet %s has no tabs", spreadsheetID)
	}

	return resp.Sheets[0].Properties.Title, nil
}
