package webui

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/micromarket/storefront/internal/backend"
)

const productsPerPage = 8

// productView pairs a product with its favorite state for the templates.
type productView struct {
	backend.Product
	IsFavorite bool
}

func (s *Server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "home", s.view(gin.H{}))
}

func (s *Server) listProducts(c *gin.Context) {
	search := c.Query("search")
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	result, err := s.backend.ListProducts(c.Request.Context(), search, page, productsPerPage)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "products", s.view(gin.H{
		"Products": s.productViews(result.Items),
		"Search":   search,
		"Page":     page,
		"Pages":    result.Pages,
		"HasPrev":  page > 1,
		"HasNext":  page < result.Pages,
	}))
}

func (s *Server) productDetail(c *gin.Context) {
	product, err := s.backend.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "product_detail", s.view(gin.H{
		"Product": productView{Product: *product, IsFavorite: s.favorites.IsFavorite(product.ID)},
	}))
}

func (s *Server) newProductPage(c *gin.Context) {
	c.HTML(http.StatusOK, "product_form", s.view(gin.H{
		"Action": "/products",
		"Title":  "Add Product",
	}))
}

func (s *Server) createProduct(c *gin.Context) {
	input, cleanup := s.productInputFromForm(c)
	defer cleanup()
	if err := s.backend.CreateProduct(c.Request.Context(), input); err != nil {
		s.renderProductFormError(c, "/products", "Add Product", input, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *Server) editProductPage(c *gin.Context) {
	id := c.Param("id")
	product, err := s.backend.GetProduct(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "product_form", s.view(gin.H{
		"Action":   "/products/" + id,
		"Title":    "Edit Product",
		"Product":  product,
		"RawPrice": strconv.FormatFloat(product.Price, 'f', -1, 64),
	}))
}

func (s *Server) updateProduct(c *gin.Context) {
	id := c.Param("id")
	input, cleanup := s.productInputFromForm(c)
	defer cleanup()
	if err := s.backend.UpdateProduct(c.Request.Context(), id, input); err != nil {
		s.renderProductFormError(c, "/products/"+id, "Edit Product", input, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/products/"+id)
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.backend.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/products")
}

func (s *Server) favoritesPage(c *gin.Context) {
	products, err := s.backend.ListFavorites(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "favorites", s.view(gin.H{
		"Products": s.productViews(products),
	}))
}

func (s *Server) productViews(products []backend.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{Product: p, IsFavorite: s.favorites.IsFavorite(p.ID)})
	}
	return views
}

// productInputFromForm reads the listing form. The image arrives either as
// an uploaded file part or as a URL field; the backend client validates that
// exactly one was supplied before anything is dispatched.
func (s *Server) productInputFromForm(c *gin.Context) (backend.ProductInput, func()) {
	input := backend.ProductInput{
		Title:       c.PostForm("title"),
		Price:       c.PostForm("price"),
		Description: c.PostForm("description"),
		ImageURL:    strings.TrimSpace(c.PostForm("imageUrl")),
	}
	cleanup := func() {}
	header, err := c.FormFile("image")
	if err != nil || header == nil {
		return input, cleanup
	}
	file, err := header.Open()
	if err != nil {
		return input, cleanup
	}
	input.ImageFile = file
	input.ImageName = header.Filename
	cleanup = func() { _ = file.Close() }
	return input, cleanup
}

func (s *Server) renderProductFormError(c *gin.Context, action, title string, input backend.ProductInput, err error) {
	status := http.StatusBadRequest
	message := err.Error()
	switch {
	case errors.Is(err, backend.ErrTitleRequired),
		errors.Is(err, backend.ErrPriceInvalid),
		errors.Is(err, backend.ErrImageRequired),
		errors.Is(err, backend.ErrImageConflict):
		// validation failed locally, nothing was sent
	default:
		var apiErr *backend.Error
		if errors.As(err, &apiErr) {
			status = apiErr.Status
			message = apiErr.Message
		} else {
			s.renderError(c, err)
			return
		}
	}
	c.HTML(status, "product_form", s.view(gin.H{
		"Action":   action,
		"Title":    title,
		"Error":    message,
		"Product":  backend.Product{Title: input.Title, Description: input.Description, Image: input.ImageURL},
		"RawPrice": input.Price,
	}))
}
