package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tempo-api/internal/dto"
	"github.com/noah-isme/tempo-api/internal/middleware"
	"github.com/noah-isme/tempo-api/internal/models"
	appErrors "github.com/noah-isme/tempo-api/pkg/errors"
)

type timeSheetServiceMock struct {
	weekResp     *dto.WeekView
	weekErr      error
	saveResp     *dto.SaveWeekResult
	saveErr      error
	statusResp   *models.TimeSheet
	statusErr    error
	lastAnchor   string
	lastSaveReq  dto.SaveWeekRequest
	weekCalled   bool
	saveCalled   bool
	statusCalled bool
}

func (m *timeSheetServiceMock) WeekView(ctx context.Context, claims *models.JWTClaims, anchorRaw string) (*dto.WeekView, error) {
	m.weekCalled = true
	m.lastAnchor = anchorRaw
	return m.weekResp, m.weekErr
}

func (m *timeSheetServiceMock) Get(ctx context.Context, id string, claims *models.JWTClaims) (*dto.WeekView, error) {
	return m.weekResp, m.weekErr
}

func (m *timeSheetServiceMock) List(ctx context.Context, claims *models.JWTClaims, limit int) ([]models.TimeSheet, error) {
	return nil, nil
}

func (m *timeSheetServiceMock) SaveWeek(ctx context.Context, claims *models.JWTClaims, anchorRaw string, req dto.SaveWeekRequest) (*dto.SaveWeekResult, error) {
	m.saveCalled = true
	m.lastAnchor = anchorRaw
	m.lastSaveReq = req
	return m.saveResp, m.saveErr
}

func (m *timeSheetServiceMock) ResetWeek(ctx context.Context, claims *models.JWTClaims, anchorRaw string) (*dto.DeleteWeekResult, error) {
	return &dto.DeleteWeekResult{Deleted: 3}, nil
}

func (m *timeSheetServiceMock) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest, claims *models.JWTClaims) (*models.TimeSheet, error) {
	m.statusCalled = true
	return m.statusResp, m.statusErr
}

func (m *timeSheetServiceMock) Delete(ctx context.Context, id string, claims *models.JWTClaims) error {
	return nil
}

func employeeContext(w *httptest.ResponseRecorder) (*gin.Context, *models.JWTClaims) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	claims := &models.JWTClaims{UserID: "user-1", Role: models.RoleEmployee}
	c.Set(middleware.ContextUserKey, claims)
	return c, claims
}

func TestTimeSheetHandlerCurrentWeek(t *testing.T) {
	mockSvc := &timeSheetServiceMock{
		weekResp: &dto.WeekView{WeekStart: "2024-06-10", WeekEnd: "2024-06-16"},
	}
	handler := NewTimeSheetHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := employeeContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/time-sheets/current?week=2024-06-13", nil)
	c.Request = req

	handler.CurrentWeek(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.weekCalled)
	assert.Equal(t, "2024-06-13", mockSvc.lastAnchor)
}

func TestTimeSheetHandlerSaveWeek(t *testing.T) {
	mockSvc := &timeSheetServiceMock{
		saveResp: &dto.SaveWeekResult{Inserted: 2},
	}
	handler := NewTimeSheetHandler(mockSvc)

	payload, _ := json.Marshal(dto.SaveWeekRequest{Rows: []dto.RowPayload{
		{Category: "HNC", ActivityID: "activity-1", Days: [7]float64{4}},
	}})
	w := httptest.NewRecorder()
	c, _ := employeeContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/time-sheets/current?week=2024-06-13", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SaveWeek(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.saveCalled)
	require.Len(t, mockSvc.lastSaveReq.Rows, 1)
	assert.Equal(t, "activity-1", mockSvc.lastSaveReq.Rows[0].ActivityID)
}

func TestTimeSheetHandlerSaveWeekInvalidBody(t *testing.T) {
	handler := NewTimeSheetHandler(&timeSheetServiceMock{})

	w := httptest.NewRecorder()
	c, _ := employeeContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/time-sheets/current", bytes.NewBufferString(`{"rows":[`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SaveWeek(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimeSheetHandlerSaveWeekConflict(t *testing.T) {
	mockSvc := &timeSheetServiceMock{saveErr: appErrors.ErrConflict}
	handler := NewTimeSheetHandler(mockSvc)

	payload, _ := json.Marshal(dto.SaveWeekRequest{})
	w := httptest.NewRecorder()
	c, _ := employeeContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/time-sheets/current", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.SaveWeek(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTimeSheetHandlerUpdateStatusLocked(t *testing.T) {
	mockSvc := &timeSheetServiceMock{statusErr: appErrors.ErrSheetLocked}
	handler := NewTimeSheetHandler(mockSvc)

	payload, _ := json.Marshal(dto.UpdateStatusRequest{Status: "saved"})
	w := httptest.NewRecorder()
	c, _ := employeeContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/time-sheets/sheet-1/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sheet-1"}}

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, mockSvc.statusCalled)
}
