package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/database"
)

// RouterConfig carries all dependencies needed to build the HTTP router.
type RouterConfig struct {
	Database       *database.Database
	Store          BookStore
	Creator        BookCreator
	Version        string
	AllowedOrigins []string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Store, cfg.Creator)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.POST("/books", booksController.AddBook)
		api.GET("/books", booksController.ListBooks)
		api.GET("/books/search", booksController.FindBook)
		api.DELETE("/books", booksController.DeleteBook)
		api.PUT("/books", booksController.UpdateBook)
	}

	return router
}
