package server

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"axis/internal/models"
	"axis/internal/store"
)

const defaultListLimit = 100

// employeeView is an employee record plus the derived display fields the
// dashboard consumes. Skills and avatar are computed, never persisted.
type employeeView struct {
	models.Employee
	Skills []string `json:"skills"`
	Avatar string   `json:"avatar"`
}

func viewOf(emp models.Employee) employeeView {
	return employeeView{
		Employee: emp,
		Skills:   models.SkillsForRole(emp.Role),
		Avatar:   models.AvatarURL(emp.EmployeeID),
	}
}

func (s *Server) listEmployees(c *gin.Context) {
	skip := intQuery(c, "skip", 0)
	limit := intQuery(c, "limit", defaultListLimit)

	employees, err := s.store.FindMany(c.Request.Context(), store.Filter{}, skip, limit)
	if err != nil {
		s.serverError(c, err)
		return
	}

	views := make([]employeeView, 0, len(employees))
	for _, emp := range employees {
		views = append(views, viewOf(emp))
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getStatus(c *gin.Context) {
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id query parameter is required"})
		return
	}

	emp, err := s.store.FindOne(c.Request.Context(), employeeID)
	if err != nil {
		s.notFoundOrServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(*emp))
}

type scheduleMeetingRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Summary    string `json:"summary" binding:"required"`
	Start      string `json:"start" binding:"required"`
	End        string `json:"end" binding:"required"`
}

func (s *Server) scheduleMeeting(c *gin.Context) {
	var req scheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The employee lookup comes first: an unknown id must never reach the
	// calendar provider.
	emp, err := s.store.FindOne(c.Request.Context(), req.EmployeeID)
	if err != nil {
		s.notFoundOrServerError(c, err)
		return
	}
	if emp.CalendarEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee has no calendar email"})
		return
	}

	eventID, err := s.calendar.InsertEvent(c.Request.Context(), emp.CalendarEmail, models.EventInput{
		Summary: req.Summary,
		Start:   req.Start,
		End:     req.End,
	})
	if err != nil {
		s.serverError(c, err)
		return
	}

	s.logger.Info("Meeting scheduled", "employeeID", emp.EmployeeID, "summary", req.Summary)
	c.JSON(http.StatusOK, gin.H{"message": "Meeting scheduled.", "event_id": eventID})
}

type suggestEmployeesRequest struct {
	RequiredSkill string `json:"required_skill"`
	Limit         int    `json:"limit"`
}

func (s *Server) suggestEmployees(c *gin.Context) {
	var req suggestEmployeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}

	notBurnedOut := false
	employees, err := s.store.FindMany(c.Request.Context(), store.Filter{BurnedOut: &notBurnedOut}, 0, 0)
	if err != nil {
		s.serverError(c, err)
		return
	}

	candidates := make([]employeeView, 0, len(employees))
	for _, emp := range employees {
		if req.RequiredSkill != "" && !models.HasSkill(emp.Role, req.RequiredSkill) {
			continue
		}
		candidates = append(candidates, viewOf(emp))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Tasks) < len(candidates[j].Tasks)
	})
	if len(candidates) > req.Limit {
		candidates = candidates[:req.Limit]
	}
	c.JSON(http.StatusOK, candidates)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
