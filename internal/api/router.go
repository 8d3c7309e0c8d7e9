package api

import (
	"butterfly-survey/internal/api/handler"
	"butterfly-survey/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/surveys", handler.CreateSurvey)
	r.GET("/api/v1/surveys", handler.ListSurveys)
	r.GET("/api/v1/surveys/{id}", handler.GetSurvey)
	r.GET("/api/v1/surveys/{id}/errors", handler.GetSurveyErrors)
	r.GET("/api/v1/surveys/{id}/logs", handler.GetSurveyLogs)
	r.GET("/api/v1/surveys/{id}/progress", handler.GetSurveyProgress)
	r.GET("/api/v1/surveys/{id}/artifacts", handler.GetSurveyArtifacts)
	r.GET("/api/v1/download/{id}/{file}", handler.DownloadArtifact)
	r.GET("/swagger/", router.HandlerFunc(httpSwagger.WrapHandler))
}
