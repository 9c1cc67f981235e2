package http

import (
	"log/slog"
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	MySummary(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	EmployeeHistory(w http.ResponseWriter, r *http.Request)
	TeamSummary(w http.ResponseWriter, r *http.Request)
	TodayOverview(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// queryParam returns the named query parameter, or nil when absent.
func queryParam(r *http.Request, name string) *string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	value := r.URL.Query().Get(name)
	return &value
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	rec, err := h.attendanceService.CheckIn(r.Context())
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked in", rec)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	rec, err := h.attendanceService.CheckOut(r.Context())
	if err != nil {
		slog.Error("CheckOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out", rec)
}

// Today implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	rec, err := h.attendanceService.Today(r.Context())
	if err != nil {
		slog.Error("Today service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, rec)
}

// MyHistory implements AttendanceHandler.
func (h *AttendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	q := attendance.HistoryQuery{
		Month: queryParam(r, "month"),
		Year:  queryParam(r, "year"),
	}

	records, err := h.attendanceService.MyHistory(r.Context(), q)
	if err != nil {
		slog.Error("MyHistory service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// MySummary implements AttendanceHandler.
func (h *AttendanceHandlerImpl) MySummary(w http.ResponseWriter, r *http.Request) {
	q := attendance.HistoryQuery{
		Month: queryParam(r, "month"),
		Year:  queryParam(r, "year"),
	}

	summary, err := h.attendanceService.MySummary(r.Context(), q)
	if err != nil {
		slog.Error("MySummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// ListAll implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	q := attendance.ListQuery{
		EmployeeCode: queryParam(r, "employee_code"),
		Date:         queryParam(r, "date"),
		Status:       queryParam(r, "status"),
	}

	records, err := h.attendanceService.ListAll(r.Context(), q)
	if err != nil {
		slog.Error("ListAll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// EmployeeHistory implements AttendanceHandler.
func (h *AttendanceHandlerImpl) EmployeeHistory(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	history, err := h.attendanceService.EmployeeHistory(r.Context(), employeeID)
	if err != nil {
		slog.Error("EmployeeHistory service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// TeamSummary implements AttendanceHandler.
func (h *AttendanceHandlerImpl) TeamSummary(w http.ResponseWriter, r *http.Request) {
	q := attendance.HistoryQuery{
		Month: queryParam(r, "month"),
		Year:  queryParam(r, "year"),
	}

	summary, err := h.attendanceService.TeamSummary(r.Context(), q)
	if err != nil {
		slog.Error("TeamSummary service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// TodayOverview implements AttendanceHandler.
func (h *AttendanceHandlerImpl) TodayOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.attendanceService.TodayOverview(r.Context())
	if err != nil {
		slog.Error("TodayOverview service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, overview)
}

// Export implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	q := attendance.ExportQuery{
		Start:        queryParam(r, "start"),
		End:          queryParam(r, "end"),
		EmployeeCode: queryParam(r, "employee_code"),
	}

	body, err := h.attendanceService.ExportCSV(r.Context(), q)
	if err != nil {
		slog.Error("Export service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.CSV(w, "attendance_report.csv", body)
}
