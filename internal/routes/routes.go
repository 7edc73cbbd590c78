package routes

import (
	"github.com/damoang/angple-revisions/internal/handler"
	"github.com/damoang/angple-revisions/internal/middleware"
	"github.com/damoang/angple-revisions/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Setup registers all API routes
func Setup(r *gin.Engine, revisionHandler *handler.RevisionHandler, jwtManager *jwt.Manager) {
	api := r.Group("/api")

	posts := api.Group("/posts")
	posts.Use(middleware.JWTAuth(jwtManager))
	{
		posts.PATCH("/:id", revisionHandler.RevisePost)
		posts.GET("/:id/revisions", revisionHandler.ListRevisions)
		posts.GET("/:id/revisions/:version", revisionHandler.GetRevision)
	}
}
