package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Ramandaygy/tutor-app/internal/config"
	"github.com/Ramandaygy/tutor-app/internal/services"
	"github.com/Ramandaygy/tutor-app/internal/utils"
)

type HandlerManager struct {
	tryoutHandler   *TryoutHandler
	progressHandler *ProgressHandler
	chatHandler     *ChatHandler
	exportHandler   *ExportHandler

	casdoor config.CasdoorConfig
}

func NewHandlerManager(
	tryoutService services.TryoutService,
	progressService services.ProgressService,
	chatService services.ChatService,
	exportService services.ExportService,
	cfg *config.Config,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		tryoutHandler:   NewTryoutHandler(tryoutService, cfg.UploadDir, logger),
		progressHandler: NewProgressHandler(progressService, exportService, logger),
		chatHandler:     NewChatHandler(chatService, logger),
		exportHandler:   NewExportHandler(exportService, logger),
		casdoor:         cfg.Casdoor,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "tutor-app",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(AuthRequired(hm.casdoor))
	{
		// Question bank and document pipeline
		tryout := v1.Group("/tryout")
		{
			tryout.GET("/questions", hm.tryoutHandler.ListQuestions)
			tryout.GET("/questions/:id", hm.tryoutHandler.GetQuestion)

			admin := tryout.Group("", AdminRequired())
			{
				admin.POST("/questions", hm.tryoutHandler.CreateQuestion)
				admin.PUT("/questions/:id", hm.tryoutHandler.UpdateQuestion)
				admin.DELETE("/questions/:id", hm.tryoutHandler.DeleteQuestion)

				admin.POST("/documents", hm.tryoutHandler.UploadDocument)
				admin.GET("/documents", hm.tryoutHandler.ListDocuments)
				admin.GET("/documents/:id", hm.tryoutHandler.GetDocument)
				admin.POST("/documents/:id/process", hm.tryoutHandler.ProcessDocument)
			}
		}

		// Tutoring chat surface
		chat := v1.Group("/chat")
		{
			chat.POST("", hm.chatHandler.Chat)
			chat.GET("/question", hm.chatHandler.NextQuestion)
			chat.POST("/answer", hm.chatHandler.SubmitAnswer)
			chat.POST("/feedback", hm.chatHandler.SubmitFeedback)
			chat.GET("/history", hm.chatHandler.History)

			chat.POST("/generate", AdminRequired(), hm.chatHandler.GenerateQuestion)
		}

		// Progress
		progress := v1.Group("/progress")
		{
			progress.GET("", hm.progressHandler.GetProgress)

			admin := progress.Group("", AdminRequired())
			{
				admin.GET("/all", hm.progressHandler.ListProgress)
				admin.GET("/stats", hm.progressHandler.GetStats)
				admin.GET("/export", hm.progressHandler.ExportProgress)
				admin.GET("/:user_id", hm.progressHandler.GetUserProgress)
				admin.POST("/:user_id/recalculate", hm.progressHandler.Recalculate)
				admin.PUT("/:user_id", hm.progressHandler.UpdateProgress)
			}
		}

		// Exports
		export := v1.Group("/export", AdminRequired())
		{
			export.GET("/questions.csv", hm.exportHandler.ExportQuestionsCSV)
			export.GET("/questions.xlsx", hm.exportHandler.ExportQuestionsExcel)
		}
	}
}
