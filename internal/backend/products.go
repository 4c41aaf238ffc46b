package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Product mirrors the backend's catalog entity. Identifiers are assigned by
// the backend; this layer never invents them.
type Product struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// ProductPage is one page of catalog results plus the backend's total page
// count. The backend owns filtering and pagination; search and page are sent
// through untouched.
type ProductPage struct {
	Items []Product
	Pages int
}

// Listing validation errors, raised before any request is dispatched.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrPriceInvalid  = errors.New("price must be a positive number")
	ErrImageRequired = errors.New("select an image file or enter an image URL")
	ErrImageConflict = errors.New("select only one: image file or image URL")
)

// ProductInput carries the create/edit form fields. Exactly one of ImageURL
// and ImageFile must be set.
type ProductInput struct {
	Title       string
	Price       string
	Description string
	ImageURL    string
	ImageFile   io.Reader
	ImageName   string
}

// Validate applies the pre-dispatch checks.
func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if price, err := strconv.ParseFloat(strings.TrimSpace(in.Price), 64); err != nil || price <= 0 {
		return ErrPriceInvalid
	}
	hasURL := strings.TrimSpace(in.ImageURL) != ""
	hasFile := in.ImageFile != nil
	switch {
	case !hasURL && !hasFile:
		return ErrImageRequired
	case hasURL && hasFile:
		return ErrImageConflict
	}
	return nil
}

// ListProducts fetches exactly one page of the catalog.
func (c *Client) ListProducts(ctx context.Context, search string, page, limit int) (*ProductPage, error) {
	query := url.Values{}
	query.Set("search", search)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	resp, err := c.do(ctx, http.MethodGet, "/products?"+query.Encode(), "", nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data  []Product `json:"data"`
		Pages int       `json:"pages"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.Pages < 1 {
		out.Pages = 1
	}
	return &ProductPage{Items: out.Data, Pages: out.Pages}, nil
}

// GetProduct fetches one product. The backend has shipped both {data:
// Product} and a bare Product for this endpoint, so both shapes are accepted.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := decode(resp, &raw); err != nil {
		return nil, err
	}
	var envelope struct {
		Data *Product `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil && envelope.Data.ID != "" {
		return envelope.Data, nil
	}
	var product Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &product, nil
}

// CreateProduct submits a new listing as multipart form data.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) error {
	return c.submitProduct(ctx, http.MethodPost, "/products", in)
}

// UpdateProduct overwrites an existing listing.
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) error {
	return c.submitProduct(ctx, http.MethodPut, "/products/"+url.PathEscape(id), in)
}

// DeleteProduct removes a listing owned by the current user.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), "", nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

func (c *Client) submitProduct(ctx context.Context, method, path string, in ProductInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	body, contentType, err := encodeProductForm(in)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// encodeProductForm builds the multipart body. The image travels either as a
// file part or as a plain "image" field holding a URL, never both.
func encodeProductForm(in ProductInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":       strings.TrimSpace(in.Title),
		"price":       strings.TrimSpace(in.Price),
		"description": in.Description,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("encode %s field: %w", name, err)
		}
	}
	if in.ImageFile != nil {
		name := in.ImageName
		if name == "" {
			name = "image"
		}
		part, err := writer.CreateFormFile("image", name)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := io.Copy(part, in.ImageFile); err != nil {
			return nil, "", fmt.Errorf("copy image data: %w", err)
		}
	} else if err := writer.WriteField("image", strings.TrimSpace(in.ImageURL)); err != nil {
		return nil, "", fmt.Errorf("encode image field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
