package handlers

import (
	"github.com/gin-gonic/gin"
)

// API groups the handlers mounted under /api.
type API struct {
	Auth     *AuthHandler
	Students *StudentHandler
	Timeline *TimelineHandler
	Followup *FollowupHandler
	Insights *InsightsHandler
	Admin    *AdminHandler
}

// Register mounts the API on r. guard protects everything except health and
// the sign-in endpoints.
func (a *API) Register(r gin.IRouter, guard gin.HandlerFunc) {
	public := r.Group("/api")
	{
		public.GET("/health", a.Admin.Health)

		auth := public.Group("/auth")
		{
			auth.POST("/signup", a.Auth.Signup)
			auth.POST("/login", a.Auth.Login)
			auth.POST("/google", a.Auth.GoogleAuth)
			auth.POST("/refresh", a.Auth.RefreshToken)
		}
	}

	protected := r.Group("/api")
	protected.Use(guard)
	{
		protected.POST("/auth/logout", a.Auth.Logout)
		protected.GET("/auth/me", a.Auth.GetMe)

		protected.GET("/students", a.Students.ListStudents)
		protected.GET("/students/:id", a.Students.GetStudent)
		protected.PUT("/students/:id", a.Students.UpsertStudent)
		protected.PATCH("/students/:id/status", a.Students.UpdateStatus)

		protected.GET("/students/:id/interactions", a.Timeline.ListInteractions)
		protected.POST("/students/:id/interactions", a.Timeline.CreateInteraction)

		protected.GET("/students/:id/communications", a.Timeline.ListCommunications)
		protected.POST("/students/:id/communications", a.Timeline.CreateCommunication)
		protected.PATCH("/students/:id/communications/:commId", a.Timeline.UpdateCommunication)
		protected.DELETE("/students/:id/communications/:commId", a.Timeline.DeleteCommunication)

		protected.GET("/students/:id/notes", a.Timeline.ListNotes)
		protected.POST("/students/:id/notes", a.Timeline.CreateNote)
		protected.PATCH("/students/:id/notes/:noteId", a.Timeline.UpdateNote)
		protected.DELETE("/students/:id/notes/:noteId", a.Timeline.DeleteNote)

		protected.GET("/students/:id/tasks", a.Timeline.ListTasks)
		protected.POST("/students/:id/tasks", a.Timeline.CreateTask)
		protected.PATCH("/students/:id/tasks/:taskId", a.Timeline.UpdateTask)
		protected.DELETE("/students/:id/tasks/:taskId", a.Timeline.DeleteTask)

		protected.POST("/followup", a.Followup.SendFollowup)

		protected.GET("/insights", a.Insights.GetInsights)
		protected.GET("/insights/followups", a.Insights.GetFollowups)
		protected.POST("/insights/export", a.Insights.ExportInsights)
		protected.GET("/charts/:name", a.Insights.GetChart)

		protected.POST("/admin/seed", a.Admin.Seed)
	}
}
