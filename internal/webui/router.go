package webui

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// NewRouter builds the gin engine with all storefront routes registered.
func NewRouter(s *Server, serviceName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router.SetHTMLTemplate(loadTemplates())

	router.GET("/", s.home)
	router.GET("/products", s.listProducts)
	router.GET("/products/:id", s.productDetail)

	router.GET("/login", s.loginPage)
	router.POST("/login", s.login)
	router.GET("/register", s.registerPage)
	router.POST("/register", s.register)
	router.POST("/logout", s.logout)

	// The toggle endpoint answers JSON for the page script and enforces its
	// own auth precondition, so it stays outside requireAuth.
	router.POST("/products/:id/favorite", s.toggleFavorite)

	authed := router.Group("/", s.requireAuth())
	authed.GET("/favorites", s.favoritesPage)
	authed.GET("/products/new", s.newProductPage)
	authed.POST("/products", s.createProduct)
	authed.GET("/products/:id/edit", s.editProductPage)
	authed.POST("/products/:id", s.updateProduct)
	authed.POST("/products/:id/delete", s.deleteProduct)

	return router
}

func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}
