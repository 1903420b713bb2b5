package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pulsefit/fitness-tracker/internal/cache"
	"pulsefit/fitness-tracker/internal/service"
)

// Services bundles everything SetupRoutes wires into handlers.
type Services struct {
	Auth       service.AuthService
	User       service.UserService
	Exercise   service.ExerciseService
	Workout    service.WorkoutService
	WorkoutLog service.WorkoutLogService
	Progress   service.ProgressService
	Planner    service.PlannerService
}

// SetupRoutes registers the full route surface on the router.
func SetupRoutes(router *gin.Engine, jwtSecret string, svcs Services, store cache.Cache) {
	authHandler := NewAuthHandler(svcs.Auth)
	userHandler := NewUserHandler(svcs.User, store)
	exerciseHandler := NewExerciseHandler(svcs.Exercise, store)
	workoutHandler := NewWorkoutHandler(svcs.Workout, store)
	logHandler := NewWorkoutLogHandler(svcs.WorkoutLog, store)
	progressHandler := NewProgressHandler(svcs.Progress, store)
	plannerHandler := NewPlannerHandler(svcs.Planner, store)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Public surface.
	router.POST("/users", authHandler.Register)
	router.POST("/login", authHandler.Login)

	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		userGroup := protected.Group("/users")
		{
			userGroup.GET("", userHandler.ListUsers)
			userGroup.GET("/:id", userHandler.GetUser)
			userGroup.POST("/:id/createprofile", userHandler.CreateProfile)
			userGroup.PUT("/:id/updateprofile", userHandler.UpdateProfile)
			userGroup.GET("/:id/profile", userHandler.GetProfile)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListPlans)
			workoutGroup.POST("", workoutHandler.CreatePlan)
			workoutGroup.GET("/:planId", workoutHandler.GetPlan)
			workoutGroup.PUT("/:planId", workoutHandler.UpdatePlan)
			workoutGroup.DELETE("/:planId", workoutHandler.DeletePlan)
			workoutGroup.POST("/:planId/weeks", workoutHandler.AddWeek)
			workoutGroup.POST("/:planId/exercises", workoutHandler.AddExerciseToPlan)
			workoutGroup.POST("/weeks/:weekId/days", workoutHandler.AddDay)
			workoutGroup.GET("/days/:dayId/exercises", workoutHandler.GetDayExercises)
			workoutGroup.POST("/days/:dayId/exercises", workoutHandler.AddExerciseToDay)
			workoutGroup.PUT("/days/:dayId/exercises", workoutHandler.UpdateDayExercise)
			workoutGroup.DELETE("/days/:dayId/exercises/:exerciseId", workoutHandler.RemoveExerciseFromDay)
		}

		logGroup := protected.Group("/workout_logs")
		{
			logGroup.POST("", logHandler.CreateLog)
			logGroup.GET("", logHandler.ListLogs)
			logGroup.POST("/:id/exercises", logHandler.AddExercise)
			logGroup.GET("/:id/exercises", logHandler.GetExercises)
		}

		progressGroup := protected.Group("/progress")
		{
			progressGroup.POST("", progressHandler.CreateProgress)
			progressGroup.GET("", progressHandler.ListProgress)
			progressGroup.GET("/:id", progressHandler.GetProgress)
			progressGroup.PUT("/:id", progressHandler.UpdateProgress)
			progressGroup.DELETE("/:id", progressHandler.DeleteProgress)
			progressGroup.POST("/:id/photo", progressHandler.RequestPhotoUpload)
			progressGroup.GET("/:id/photo", progressHandler.GetPhotoDownloadURL)
		}

		protected.POST("/genai/generate", plannerHandler.Generate)
	}
}
