package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"achihouse/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const reservationsSheetRange = "Reservations"

// SheetsService mirrors reservation requests into a Google spreadsheet
// the managers already work in.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	rowCache      map[int64]int
	cacheMu       sync.RWMutex
}

var errRowNotFound = errors.New("reservation row not found")

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		rowCache:      make(map[int64]int),
	}, nil
}

// TestConnection проверяет подключение к таблице
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, reservationsSheetRange+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail возвращает email сервисного аккаунта
func GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// AppendReservation добавляет новую заявку в конец листа
func (s *SheetsService) AppendReservation(ctx context.Context, r *models.ReservationRequest) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{reservationRowValues(r)},
	}

	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, reservationsSheetRange+"!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()

	return err
}

// ReplaceReservationsSheet полностью перезаписывает лист с заявками
func (s *SheetsService) ReplaceReservationsSheet(ctx context.Context, requests []models.ReservationRequest) error {
	clearRange := reservationsSheetRange + "!A1:Z"
	if _, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear reservations sheet: %v", err)
	}

	values := [][]interface{}{reservationHeaderValues()}
	for i := range requests {
		values = append(values, reservationRowValues(&requests[i]))
	}

	valueRange := &sheets.ValueRange{Values: values}
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, reservationsSheetRange+"!A1", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update reservations sheet: %v", err)
	}

	s.cacheMu.Lock()
	s.rowCache = make(map[int64]int)
	for i := range requests {
		s.rowCache[requests[i].ID] = i + 2 // данные начинаются со 2-й строки
	}
	s.cacheMu.Unlock()

	return nil
}

// UpdateReservationStatus обновляет статус заявки в ее строке
func (s *SheetsService) UpdateReservationStatus(ctx context.Context, id int64, status string) error {
	rowIdx, err := s.findReservationRow(ctx, id)
	if err != nil {
		if errors.Is(err, errRowNotFound) {
			// Строки нет - заявка еще не попала в таблицу, пропускаем
			return nil
		}
		return err
	}

	statusRange := fmt.Sprintf("%s!H%d:H%d", reservationsSheetRange, rowIdx, rowIdx)
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, statusRange, &sheets.ValueRange{
		Values: [][]interface{}{{status}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// findReservationRow ищет строку заявки по ID в колонке A, с кэшем
func (s *SheetsService) findReservationRow(ctx context.Context, id int64) (int, error) {
	s.cacheMu.RLock()
	row, ok := s.rowCache[id]
	s.cacheMu.RUnlock()
	if ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, reservationsSheetRange+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, cells := range resp.Values {
		if len(cells) == 0 {
			continue
		}
		var cellID int64
		switch v := cells[0].(type) {
		case float64:
			cellID = int64(v)
		case string:
			cellID, _ = strconv.ParseInt(v, 10, 64)
		}
		if cellID == id {
			rowIdx := i + 1 // Values нумеруются с нуля, строки листа с единицы
			s.cacheMu.Lock()
			s.rowCache[id] = rowIdx
			s.cacheMu.Unlock()
			return rowIdx, nil
		}
	}

	return 0, errRowNotFound
}

func reservationHeaderValues() []interface{} {
	return []interface{}{"ID", "Guest", "Phone", "Email", "Guests", "Date", "Time", "Status", "Note", "Created At"}
}

func reservationRowValues(r *models.ReservationRequest) []interface{} {
	return []interface{}{
		r.ID,
		r.FullName,
		r.PhoneNumber,
		r.Email,
		r.GuestCount,
		r.ReservationDate,
		r.ReservationTime,
		r.Status,
		r.Note,
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
