package api

import (
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP endpoints under the /api prefix.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	workoutService service.WorkoutService,
	progressService service.ProgressService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	workoutHandler := NewWorkoutHandler(workoutService)
	progressHandler := NewProgressHandler(progressService)

	authMiddleware := AuthMiddleware(jwtSecret)

	apiGroup := router.Group("/api")
	{
		// Health check
		apiGroup.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Fitness App API is running",
				"status":  "healthy",
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiGroup.Group("")
	protected.Use(authMiddleware)
	{
		userGroup := protected.Group("/user")
		{
			userGroup.GET("/profile", userHandler.GetProfile)
			userGroup.POST("/avatar/upload-url", userHandler.RequestAvatarUploadURL)
			userGroup.PUT("/avatar", userHandler.ConfirmAvatar)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("/", workoutHandler.ListWorkouts)
			workoutGroup.GET("/today", workoutHandler.TodayWorkout)
			workoutGroup.POST("/:workoutId/exercises/:exerciseId/complete-set", workoutHandler.CompleteSet)
		}

		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("/weekly", progressHandler.Weekly)
			progressGroup.GET("/stats", progressHandler.Stats)
		}
	}
}
