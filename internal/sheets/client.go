package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/danghoang/kvboard/internal/common"
	"github.com/danghoang/kvboard/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client implements service.SheetClient against the Google Sheets API.
// All methods address a single spreadsheet fixed at construction; the
// board's tab inside it is created on demand.
type Client struct {
	svc           *sheets.Service
	logger        *slog.Logger
	spreadsheetID string
	retry         service.RetryOptions
}

// NewClient creates an authenticated Sheets client.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		logger:        logger,
		spreadsheetID: config.SpreadsheetID,
		retry: service.RetryOptions{
			MaxAttempts:  config.RetryAttempts,
			InitialDelay: config.RetryDelay,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		if token.RefreshToken == "" {
			// Fall back to the token file written by the auth command.
			saved, err := LoadToken(config.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("unable to load token file %s: %w", config.TokenFile, err)
			}
			token = saved
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// EnsureSheet returns the grid ID of the named sheet, creating it with the
// given header row when absent. Check-then-create leaves a small race
// window; sync runs are scheduled single-writer, so it is accepted.
func (c *Client) EnsureSheet(ctx context.Context, title string, header []string) (int64, error) {
	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("%w: reading spreadsheet %s: %v", common.ErrSheetAccess, c.spreadsheetID, err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == title {
			return sheet.Properties.SheetId, nil
		}
	}

	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("%w: creating sheet %q: %v", common.ErrSheetAccess, title, err)
	}

	sheetID := resp.Replies[0].AddSheet.Properties.SheetId

	headerRow := make([]string, len(header))
	copy(headerRow, header)
	if err := c.UpdateValues(ctx, fmt.Sprintf("%s!A1", title), [][]string{headerRow}); err != nil {
		return 0, err
	}

	c.logger.Info("created board sheet", "title", title, "sheet_id", sheetID)
	return sheetID, nil
}

// GetValues reads a range as rendered text.
func (c *Client) GetValues(ctx context.Context, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: reading range %s: %v", common.ErrSheetAccess, rng, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// UpdateValues writes cell text with RAW input so the spreadsheet never
// reinterprets it (return dates must stay literal text).
func (c *Client) UpdateValues(ctx context.Context, rng string, rows [][]string) error {
	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	err := common.WithRetry(ctx, func() error {
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		return err
	}, c.retry)
	if err != nil {
		return fmt.Errorf("%w: writing range %s: %v", common.ErrSheetAccess, rng, err)
	}

	c.logger.Debug("wrote values", "range", rng, "rows", len(rows))
	return nil
}

// InsertRows opens [start, end) empty rows in the given sheet.
func (c *Client) InsertRows(ctx context.Context, sheetID, start, end int64) error {
	err := common.WithRetry(ctx, func() error {
		_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				InsertDimension: &sheets.InsertDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: start,
						EndIndex:   end,
					},
					InheritFromBefore: false,
				},
			}},
		}).Context(ctx).Do()
		return err
	}, c.retry)
	if err != nil {
		return fmt.Errorf("%w: inserting rows [%d,%d): %v", common.ErrSheetAccess, start, end, err)
	}
	return nil
}

// BatchFormat applies structural requests in one batch call.
func (c *Client) BatchFormat(ctx context.Context, requests []*sheets.Request) error {
	if len(requests) == 0 {
		return nil
	}

	err := common.WithRetry(ctx, func() error {
		_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}).Context(ctx).Do()
		return err
	}, c.retry)
	if err != nil {
		return fmt.Errorf("%w: applying %d format requests: %v", common.ErrSheetAccess, len(requests), err)
	}
	return nil
}
