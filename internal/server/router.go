package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/peiassist/backend/internal/http/handlers"
)

type RouterConfig struct {
	PeiHandler      *handlers.PeiHandler
	ActivityHandler *handlers.ActivityHandler
	RagFileHandler  *handlers.RagFileHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Local collaborator UIs only.
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Saved plans
		api.GET("/peis", cfg.PeiHandler.ListPeis)
		api.GET("/peis/:id", cfg.PeiHandler.GetPei)
		api.DELETE("/peis/:id", cfg.PeiHandler.DeletePei)
		api.POST("/peis/:id/activities/:activityId", cfg.PeiHandler.AddActivityToPei)

		// Live draft
		api.GET("/pei/draft", cfg.PeiHandler.GetDraft)
		api.POST("/pei/draft/load/:id", cfg.PeiHandler.LoadDraft)
		api.POST("/pei/draft/clear", cfg.PeiHandler.ClearDraft)
		api.POST("/pei/draft/save", cfg.PeiHandler.SaveDraft)
		api.PUT("/pei/draft/fields/:fieldId", cfg.PeiHandler.SetField)
		api.POST("/pei/draft/fields/:fieldId/generate", cfg.PeiHandler.GenerateField)
		api.POST("/pei/draft/fields/:fieldId/validate", cfg.PeiHandler.ValidateGoal)
		api.POST("/pei/draft/fields/:fieldId/suggest", cfg.PeiHandler.SuggestActivities)
		api.POST("/pei/draft/fields/:fieldId/refine", cfg.PeiHandler.RefineField)
		api.GET("/pei/autosave/status", cfg.PeiHandler.AutosaveStatus)

		// Activity bank
		api.GET("/activities", cfg.ActivityHandler.ListActivities)
		api.POST("/activities", cfg.ActivityHandler.CreateActivity)
		api.GET("/activities/:id", cfg.ActivityHandler.GetActivity)
		api.PUT("/activities/:id", cfg.ActivityHandler.UpdateActivity)
		api.DELETE("/activities/:id", cfg.ActivityHandler.DeleteActivity)
		api.POST("/activities/:id/favorite", cfg.ActivityHandler.ToggleFavorite)

		// Support files
		api.GET("/files", cfg.RagFileHandler.ListFiles)
		api.POST("/files", cfg.RagFileHandler.CreateFile)
		api.GET("/files/:id", cfg.RagFileHandler.GetFile)
		api.DELETE("/files/:id", cfg.RagFileHandler.DeleteFile)
	}

	return router
}
