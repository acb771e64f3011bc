// Package sheet reads and updates the Google spreadsheet that drives the
// pipeline. Client is the narrow interface the rest of the module uses;
// GoogleClient implements it on the Sheets v4 API.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrWorksheetNotFound is returned when a worksheet title does not exist in
// the spreadsheet.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// Client reads all values of a worksheet and writes single cells. row and
// col are 1-based.
type Client interface {
	Rows(ctx context.Context, worksheet string) ([][]string, error)
	UpdateCell(ctx context.Context, worksheet string, row, col int, value string) error
}

// GoogleClient is a Client backed by the Sheets v4 API.
type GoogleClient struct {
	svc     *sheets.Service
	sheetID string
	titles  map[string]bool
}

// NewGoogleClient authenticates with the service-account key at keyFile.
func NewGoogleClient(ctx context.Context, sheetID, keyFile string) (*GoogleClient, error) {
	return newGoogleClient(ctx, sheetID,
		option.WithCredentialsFile(keyFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
}

func newGoogleClient(ctx context.Context, sheetID string, opts ...option.ClientOption) (*GoogleClient, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &GoogleClient{svc: svc, sheetID: sheetID}, nil
}

// Rows returns every row of worksheet as strings. The API drops trailing
// empty cells, so rows are padded to the widest row.
func (g *GoogleClient) Rows(ctx context.Context, worksheet string) ([][]string, error) {
	if err := g.ensureWorksheet(ctx, worksheet); err != nil {
		return nil, err
	}
	resp, err := g.svc.Spreadsheets.Values.Get(g.sheetID, quoteTitle(worksheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", worksheet, err)
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return fillGaps(out), nil
}

// UpdateCell writes value into (row, col) with USER_ENTERED semantics.
func (g *GoogleClient) UpdateCell(ctx context.Context, worksheet string, row, col int, value string) error {
	if err := g.ensureWorksheet(ctx, worksheet); err != nil {
		return err
	}
	rng := quoteTitle(worksheet) + "!" + CellRef(row, col)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := g.svc.Spreadsheets.Values.Update(g.sheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// ensureWorksheet reports ErrWorksheetNotFound for unknown names. Titles
// are cached; a miss reloads them once, so worksheets added while the
// process runs are found.
func (g *GoogleClient) ensureWorksheet(ctx context.Context, worksheet string) error {
	if g.titles[worksheet] {
		return nil
	}
	if err := g.loadTitles(ctx); err != nil {
		return err
	}
	if !g.titles[worksheet] {
		return fmt.Errorf("%w: %q", ErrWorksheetNotFound, worksheet)
	}
	return nil
}

func (g *GoogleClient) loadTitles(ctx context.Context) error {
	ss, err := g.svc.Spreadsheets.Get(g.sheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("open spreadsheet %s: %w", g.sheetID, err)
	}
	titles := make(map[string]bool, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles[s.Properties.Title] = true
		}
	}
	g.titles = titles
	return nil
}

// fillGaps pads every row with empty strings to the length of the widest.
func fillGaps(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	for i, r := range rows {
		if len(r) < width {
			rows[i] = append(r, make([]string, width-len(r))...)
		}
	}
	return rows
}

// quoteTitle quotes a worksheet title for A1 notation ('Phòng mạch').
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// CellRef converts 1-based (row, col) to A1 notation: (3, 8) → "H3".
func CellRef(row, col int) string {
	return ColumnLetter(col) + strconv.Itoa(row)
}

// ColumnLetter converts a 1-based column number to letters: 1 → A, 27 → AA.
func ColumnLetter(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}
