package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/paygrid-hr/payroll-backend-go/internal/handler/http/response"
	payrollsvc "github.com/paygrid-hr/payroll-backend-go/internal/service/payroll"
	statutorysvc "github.com/paygrid-hr/payroll-backend-go/internal/service/statutory"
)

type PayrollHandler interface {
	ProcessEmployee(w http.ResponseWriter, r *http.Request)
	RunBranch(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	ListBranchRecords(w http.ResponseWriter, r *http.Request)
	InvalidateStatutoryConfig(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService *payrollsvc.Service
	configProvider *statutorysvc.ConfigProvider
}

func NewPayrollHandler(payrollService *payrollsvc.Service, configProvider *statutorysvc.ConfigProvider) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		configProvider: configProvider,
	}
}

// ProcessEmployee implements PayrollHandler.
func (h *payrollHandlerImpl) ProcessEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req payroll.ProcessEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ProcessEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ProcessEmployee(r.Context(), employeeID, req.Month, req.Year, payroll.ProcessOptions{})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Skipped {
		response.SuccessWithMessage(w, result.Reason, nil)
		return
	}

	response.Created(w, "Payroll record created", payroll.NewRecordResponse(*result.Record))
}

// RunBranch implements PayrollHandler.
func (h *payrollHandlerImpl) RunBranch(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "id")
	if branchID == "" {
		response.BadRequest(w, "Branch ID is required", nil)
		return
	}

	var req payroll.RunBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RunBranch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.payrollService.RunBranchPayroll(r.Context(), branchID, req.Month, req.Year, req.InitiatedBy)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run completed", payroll.NewRunSummaryResponse(summary))
}

// GetRun implements PayrollHandler.
func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.payrollService.GetRun(r.Context(), runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewRunResponse(run))
}

// GetRecord implements PayrollHandler.
func (h *payrollHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")
	if recordID == "" {
		response.BadRequest(w, "Record ID is required", nil)
		return
	}

	rec, err := h.payrollService.GetRecord(r.Context(), recordID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewRecordResponse(rec))
}

// ListBranchRecords implements PayrollHandler.
func (h *payrollHandlerImpl) ListBranchRecords(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "id")
	if branchID == "" {
		response.BadRequest(w, "Branch ID is required", nil)
		return
	}

	month, year, ok := parsePeriodQuery(w, r)
	if !ok {
		return
	}

	records, err := h.payrollService.ListBranchRecords(r.Context(), branchID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]payroll.RecordResponse, 0, len(records))
	for _, rec := range records {
		// Calculation logs are large; the list view omits them.
		rec.CalculationLog = nil
		out = append(out, payroll.NewRecordResponse(rec))
	}
	response.Success(w, out)
}

// InvalidateStatutoryConfig implements PayrollHandler.
func (h *payrollHandlerImpl) InvalidateStatutoryConfig(w http.ResponseWriter, r *http.Request) {
	h.configProvider.Invalidate()
	response.SuccessWithMessage(w, "Statutory configuration cache invalidated", nil)
}

func parsePeriodQuery(w http.ResponseWriter, r *http.Request) (month, year int, ok bool) {
	var req payroll.ProcessEmployeeRequest
	var err error
	if req.Month, err = strconv.Atoi(r.URL.Query().Get("month")); err != nil {
		response.BadRequest(w, "Invalid month query parameter", nil)
		return 0, 0, false
	}
	if req.Year, err = strconv.Atoi(r.URL.Query().Get("year")); err != nil {
		response.BadRequest(w, "Invalid year query parameter", nil)
		return 0, 0, false
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return 0, 0, false
	}
	return req.Month, req.Year, true
}
