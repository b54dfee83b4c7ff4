package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gistshu/chr/internal/payroll"
	payrollerrors "github.com/gistshu/chr/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayrollService struct {
	generateFn        func(ctx context.Context, month string) ([]payroll.PayrollResponse, error)
	recalculateFn     func(ctx context.Context, month string) ([]payroll.PayrollResponse, error)
	getByMonthFn      func(ctx context.Context, month string) ([]payroll.PayrollResponse, error)
	getByIDFn         func(ctx context.Context, id string) (payroll.PayrollResponse, error)
	updateFieldFn     func(ctx context.Context, id string, req payroll.UpdatePayrollFieldRequest) (payroll.PayrollResponse, error)
	lockFn            func(ctx context.Context, id string) (payroll.PayrollResponse, error)
	historyFn         func(ctx context.Context, employeeID string) ([]payroll.PayrollResponse, error)
	exportRegisterFn  func(ctx context.Context, month string) ([]byte, string, error)
	requestPayslipFn  func(ctx context.Context, id string) error
	generatePayslipFn func(ctx context.Context, id string) (string, error)
	downloadPayslipFn func(ctx context.Context, id string) ([]byte, string, error)
}

func (f *fakePayrollService) Generate(ctx context.Context, month string) ([]payroll.PayrollResponse, error) {
	return f.generateFn(ctx, month)
}

func (f *fakePayrollService) Recalculate(ctx context.Context, month string) ([]payroll.PayrollResponse, error) {
	return f.recalculateFn(ctx, month)
}

func (f *fakePayrollService) GetByMonth(ctx context.Context, month string) ([]payroll.PayrollResponse, error) {
	return f.getByMonthFn(ctx, month)
}

func (f *fakePayrollService) GetByID(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakePayrollService) UpdateField(ctx context.Context, id string, req payroll.UpdatePayrollFieldRequest) (payroll.PayrollResponse, error) {
	return f.updateFieldFn(ctx, id, req)
}

func (f *fakePayrollService) Lock(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	return f.lockFn(ctx, id)
}

func (f *fakePayrollService) History(ctx context.Context, employeeID string) ([]payroll.PayrollResponse, error) {
	return f.historyFn(ctx, employeeID)
}

func (f *fakePayrollService) ExportRegister(ctx context.Context, month string) ([]byte, string, error) {
	return f.exportRegisterFn(ctx, month)
}

func (f *fakePayrollService) RequestPayslip(ctx context.Context, id string) error {
	return f.requestPayslipFn(ctx, id)
}

func (f *fakePayrollService) GeneratePayslip(ctx context.Context, id string) (string, error) {
	return f.generatePayslipFn(ctx, id)
}

func (f *fakePayrollService) DownloadPayslip(ctx context.Context, id string) ([]byte, string, error) {
	return f.downloadPayslipFn(ctx, id)
}

func TestPayrollHandler_Generate(t *testing.T) {
	svc := &fakePayrollService{
		generateFn: func(ctx context.Context, month string) ([]payroll.PayrollResponse, error) {
			assert.Equal(t, "2023-10", month)
			return []payroll.PayrollResponse{{ID: uuid.New().String(), Month: month}}, nil
		},
	}

	h := payroll.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(`{"month":"2023-10"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Generate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_Generate_MissingMonth(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/generate", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestPayrollHandler_UpdateField_Locked(t *testing.T) {
	id := uuid.New().String()
	svc := &fakePayrollService{
		updateFieldFn: func(ctx context.Context, pid string, req payroll.UpdatePayrollFieldRequest) (payroll.PayrollResponse, error) {
			assert.Equal(t, id, pid)
			return payroll.PayrollResponse{}, payrollerrors.ErrLockedRecord
		},
	}

	h := payroll.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPatch, "/payrolls/"+id+"/field",
		strings.NewReader(`{"field":"other_bonuses","value":2000}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = []gin.Param{{Key: "id", Value: id}}

	h.UpdateField(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "LOCKED_RECORD", env.Error.Code)
}

func TestPayrollHandler_GetByMonth_RequiresMonth(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls", nil)

	h.GetByMonth(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayrollHandler_History(t *testing.T) {
	employeeID := uuid.New().String()
	svc := &fakePayrollService{
		historyFn: func(ctx context.Context, eid string) ([]payroll.PayrollResponse, error) {
			assert.Equal(t, employeeID, eid)
			return []payroll.PayrollResponse{
				{ID: uuid.New().String(), Month: "2023-10"},
				{ID: uuid.New().String(), Month: "2023-09", IsLocked: true},
			}, nil
		},
	}

	h := payroll.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/history/"+employeeID, nil)
	c.Params = []gin.Param{{Key: "employeeId", Value: employeeID}}

	h.History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var items []payroll.PayrollResponse
	assert.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 2)
}

func TestPayrollHandler_DownloadPayslip(t *testing.T) {
	id := uuid.New().String()
	svc := &fakePayrollService{
		downloadPayslipFn: func(ctx context.Context, pid string) ([]byte, string, error) {
			return []byte("%PDF-1.4"), "payslip-E001-2023-10.pdf", nil
		},
	}

	h := payroll.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/"+id+"/payslip", nil)
	c.Params = []gin.Param{{Key: "id", Value: id}}

	h.DownloadPayslip(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payslip-E001-2023-10.pdf")
}

func TestPayrollHandler_DownloadPayslip_NotGenerated(t *testing.T) {
	svc := &fakePayrollService{
		downloadPayslipFn: func(ctx context.Context, pid string) ([]byte, string, error) {
			return nil, "", payrollerrors.ErrPayslipNotGenerated
		},
	}

	h := payroll.NewHandler(svc, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id := uuid.New().String()
	c.Request = httptest.NewRequest(http.MethodGet, "/payrolls/"+id+"/payslip", nil)
	c.Params = []gin.Param{{Key: "id", Value: id}}

	h.DownloadPayslip(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
