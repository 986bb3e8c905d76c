package api

import (
	"net/http"

	"dmarchuk/liftbook/internal/domain" // Needed for RoleMiddleware
	"dmarchuk/liftbook/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	maxUploadBytes int64,
	authService service.AuthService,
	exerciseService service.ExerciseService,
	programService service.ProgramService,
	importService service.ImportService,
) {

	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	programHandler := NewProgramHandler(programService, importService, maxUploadBytes)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Exercise Library Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			// POST /api/v1/exercises - Only trainers can add library entries
			exerciseGroup.POST("", RoleMiddleware(domain.RoleTrainer), exerciseHandler.CreateExercise)
			// GET /api/v1/exercises - The library is shared and readable by everyone
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			// GET /api/v1/exercises/{id}
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			// GET /api/v1/exercises/{id}/substitutions
			exerciseGroup.GET("/:id/substitutions", exerciseHandler.GetSubstitutes)
		}

		// --- Program Routes ---
		programGroup := protected.Group("/programs")
		{
			// POST /api/v1/programs/import - Only trainers import workbooks
			programGroup.POST("/import", RoleMiddleware(domain.RoleTrainer), programHandler.ImportProgram)
			// GET /api/v1/programs
			programGroup.GET("", programHandler.ListPrograms)
			// GET /api/v1/programs/{id}
			programGroup.GET("/:id", programHandler.GetProgram)
			// DELETE /api/v1/programs/{id}
			programGroup.DELETE("/:id", programHandler.DeleteProgram)
			// GET /api/v1/programs/{id}/source
			programGroup.GET("/:id/source", programHandler.GetProgramSource)
		}
	}
}
