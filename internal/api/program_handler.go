package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"dmarchuk/liftbook/internal/domain"
	"dmarchuk/liftbook/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler holds the program and import service dependencies.
type ProgramHandler struct {
	programService service.ProgramService
	importService  service.ImportService
	maxUploadBytes int64
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService, importService service.ImportService, maxUploadBytes int64) *ProgramHandler {
	return &ProgramHandler{
		programService: programService,
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
	}
}

// --- DTOs for API (Data Transfer Objects) ---

// ProgramResponse is the DTO for returning program roots.
type ProgramResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	WeeklyFrequency int       `json:"weeklyFrequency"`
	Source          string    `json:"source,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SkippedRowResponse reports one workbook row the importer could not place.
type SkippedRowResponse struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResponse is returned after a successful workbook import.
type ImportResponse struct {
	Program          ProgramResponse      `json:"program"`
	ExercisesCreated int                  `json:"exercisesCreated"`
	SkippedRows      []SkippedRowResponse `json:"skippedRows"`
}

// TemplateExerciseResponse is one prescribed exercise slot within a workout.
type TemplateExerciseResponse struct {
	ID          string           `json:"id"`
	Exercise    ExerciseResponse `json:"exercise"`
	WarmupSets  int              `json:"warmupSets"`
	WorkingSets int              `json:"workingSets"`
	RepRangeMin int              `json:"repRangeMin"`
	RepRangeMax int              `json:"repRangeMax"`
	RIR         *int             `json:"rir,omitempty"`
	RestSeconds int              `json:"restSeconds"`
	Notes       string           `json:"notes,omitempty"`
}

// WorkoutResponse is one workout template within a week.
type WorkoutResponse struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	DayNumber int                        `json:"dayNumber"`
	Exercises []TemplateExerciseResponse `json:"exercises"`
}

// WeekResponse is one training week within a block.
type WeekResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	WeekNumber int               `json:"weekNumber"`
	WeekType   string            `json:"weekType"`
	Workouts   []WorkoutResponse `json:"workouts"`
}

// BlockResponse is one multi-week phase within a program.
type BlockResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	BlockNumber int            `json:"blockNumber"`
	Weeks       []WeekResponse `json:"weeks"`
}

// ProgramTreeResponse is the fully nested view of one program.
type ProgramTreeResponse struct {
	Program ProgramResponse `json:"program"`
	Blocks  []BlockResponse `json:"blocks"`
}

// SourceURLResponse carries the presigned download URL of an archived workbook.
type SourceURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// MapProgramToResponse converts a domain.Program to ProgramResponse DTO.
func MapProgramToResponse(p *domain.Program) ProgramResponse {
	if p == nil {
		return ProgramResponse{}
	}
	return ProgramResponse{
		ID:              p.ID.Hex(),
		Name:            p.Name,
		WeeklyFrequency: p.WeeklyFrequency,
		Source:          p.Source,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// MapProgramTreeToResponse converts the service-level tree to its DTO form.
func MapProgramTreeToResponse(tree *service.ProgramTree) ProgramTreeResponse {
	resp := ProgramTreeResponse{
		Program: MapProgramToResponse(&tree.Program),
		Blocks:  make([]BlockResponse, len(tree.Blocks)),
	}
	for i, b := range tree.Blocks {
		blockResp := BlockResponse{
			ID:          b.Block.ID.Hex(),
			Name:        b.Block.Name,
			BlockNumber: b.Block.BlockNumber,
			Weeks:       make([]WeekResponse, len(b.Weeks)),
		}
		for j, w := range b.Weeks {
			weekResp := WeekResponse{
				ID:         w.Week.ID.Hex(),
				Name:       w.Week.Name,
				WeekNumber: w.Week.WeekNumber,
				WeekType:   string(w.Week.WeekType),
				Workouts:   make([]WorkoutResponse, len(w.Workouts)),
			}
			for k, wo := range w.Workouts {
				workoutResp := WorkoutResponse{
					ID:        wo.Workout.ID.Hex(),
					Name:      wo.Workout.Name,
					DayNumber: wo.Workout.DayNumber,
					Exercises: make([]TemplateExerciseResponse, len(wo.Exercises)),
				}
				for l, te := range wo.Exercises {
					workoutResp.Exercises[l] = TemplateExerciseResponse{
						ID:          te.TemplateExercise.ID.Hex(),
						Exercise:    MapExerciseToResponse(&te.Exercise),
						WarmupSets:  te.TemplateExercise.WarmupSets,
						WorkingSets: te.TemplateExercise.WorkingSets,
						RepRangeMin: te.TemplateExercise.RepRangeMin,
						RepRangeMax: te.TemplateExercise.RepRangeMax,
						RIR:         te.TemplateExercise.RIR,
						RestSeconds: te.TemplateExercise.RestSeconds,
						Notes:       te.TemplateExercise.Notes,
					}
				}
				weekResp.Workouts[k] = workoutResp
			}
			blockResp.Weeks[j] = weekResp
		}
		resp.Blocks[i] = blockResp
	}
	return resp
}

// --- Handler Methods ---

// ImportProgram godoc
// @Summary Import a program from a spreadsheet
// @Description Accepts an .xlsx workbook as multipart form field "file", parses it into a program graph, and persists it for the caller.
// @Tags Programs
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Program workbook (.xlsx)"
// @Success 201 {object} ImportResponse "Program imported"
// @Failure 400 {object} gin.H "Missing file, wrong file type, or unparseable workbook"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Failure 413 {object} gin.H "File exceeds the upload size limit"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/import [post]
func (h *ProgramHandler) ImportProgram(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Multipart form field 'file' is required.")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		abortWithError(c, http.StatusRequestEntityTooLarge, "Uploaded file exceeds the size limit.")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		abortWithError(c, http.StatusBadRequest, "Only .xlsx workbooks are supported.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read uploaded file.")
		return
	}
	defer file.Close()

	result, err := h.importService.ImportWorkbook(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkbookUnreadable):
			abortWithError(c, http.StatusBadRequest, "The uploaded file could not be read as an Excel workbook.")
		case errors.Is(err, service.ErrNoProgramData):
			abortWithError(c, http.StatusBadRequest, "No program rows were recognized in the workbook.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to import program.")
		}
		return
	}

	skipped := make([]SkippedRowResponse, len(result.SkippedRows))
	for i, s := range result.SkippedRows {
		skipped[i] = SkippedRowResponse{Row: s.Row, Reason: s.Reason}
	}
	c.JSON(http.StatusCreated, ImportResponse{
		Program:          MapProgramToResponse(result.Program),
		ExercisesCreated: result.ExercisesCreated,
		SkippedRows:      skipped,
	})
}

// ListPrograms godoc
// @Summary List the caller's programs
// @Description Retrieves every program the authenticated user has imported, newest first.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProgramResponse "List of programs"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	programs, err := h.programService.ListPrograms(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve programs.")
		return
	}

	responses := make([]ProgramResponse, len(programs))
	for i, p := range programs {
		responses[i] = MapProgramToResponse(&p)
	}
	c.JSON(http.StatusOK, responses)
}

// GetProgram godoc
// @Summary Get one program as a nested tree
// @Description Retrieves a program with its blocks, weeks, workouts, and exercise prescriptions in source order.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 200 {object} ProgramTreeResponse "Program tree"
// @Failure 400 {object} gin.H "Invalid program ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Program belongs to another user"
// @Failure 404 {object} gin.H "Program not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/{id} [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	tree, err := h.programService.GetProgramTree(c.Request.Context(), userID, programID)
	if err != nil {
		h.abortWithProgramError(c, err, "Failed to retrieve program.")
		return
	}
	c.JSON(http.StatusOK, MapProgramTreeToResponse(tree))
}

// DeleteProgram godoc
// @Summary Delete a program
// @Description Removes a program with its whole graph and the archived source workbook.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 204 "Program deleted"
// @Failure 400 {object} gin.H "Invalid program ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Program belongs to another user"
// @Failure 404 {object} gin.H "Program not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/{id} [delete]
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	if err := h.programService.DeleteProgram(c.Request.Context(), userID, programID); err != nil {
		h.abortWithProgramError(c, err, "Failed to delete program.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProgramSource godoc
// @Summary Get a download link for the original workbook
// @Description Returns a short-lived presigned URL for the archived source spreadsheet.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 200 {object} SourceURLResponse "Presigned download URL"
// @Failure 400 {object} gin.H "Invalid program ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Program belongs to another user"
// @Failure 404 {object} gin.H "Program or archived source not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /programs/{id}/source [get]
func (h *ProgramHandler) GetProgramSource(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	url, err := h.programService.GetSourceDownloadURL(c.Request.Context(), userID, programID)
	if err != nil {
		if errors.Is(err, service.ErrNoSourceArchived) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		h.abortWithProgramError(c, err, "Failed to generate download link.")
		return
	}
	c.JSON(http.StatusOK, SourceURLResponse{DownloadURL: url})
}

// abortWithProgramError maps the common program service errors to HTTP codes.
func (h *ProgramHandler) abortWithProgramError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
