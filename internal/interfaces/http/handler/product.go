package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/clothstore/backend/internal/application/catalog"
	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	msgProductNotFound = "Product not found"
	imagesFormField    = "images"
)

// ProductHandler handles the storefront catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200 {object} dto.APIResponse[[]catalog.ProductResponse]
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, products, len(products))
}

// Get godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.APIResponse[catalog.ProductResponse]
// @Failure      404 {object} dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", msgProductNotFound)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Description  Multipart form with the product fields and up to 10 image files under "images"
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        name formData string true "Name"
// @Param        price formData number true "Price"
// @Param        category formData string false "Category"
// @Param        description formData string false "Description"
// @Param        color formData string false "Color"
// @Param        images formData file false "Images"
// @Success      201 {object} dto.APIResponse[catalog.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	price, err := parsePrice(c.PostForm("price"))
	if err != nil {
		h.BadRequest(c, "Price must be a number")
		return
	}
	req := catalog.CreateProductRequest{
		Name:        c.PostForm("name"),
		Price:       price,
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Color:       c.PostForm("color"),
	}

	images, closeAll, err := h.formImages(c)
	if err != nil {
		h.BadRequest(c, "Invalid multipart form")
		return
	}
	defer closeAll()

	product, err := h.productService.CreateProduct(c.Request.Context(), req, images)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// SetSoldOut godoc
// @ID           setProductSoldOut
// @Summary      Set the sold-out flag
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.SoldOutRequest true "Flag"
// @Success      200 {object} dto.APIResponse[catalog.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/sold-out [put]
func (h *ProductHandler) SetSoldOut(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", msgProductNotFound)
	if !ok {
		return
	}

	var req catalog.SoldOutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.SetSoldOut(c.Request.Context(), id, *req.SoldOut)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// AddImages godoc
// @ID           addProductImages
// @Summary      Upload more images
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        images formData file true "Images"
// @Success      200 {object} dto.APIResponse[catalog.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/images [post]
func (h *ProductHandler) AddImages(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", msgProductNotFound)
	if !ok {
		return
	}

	images, closeAll, err := h.formImages(c)
	if err != nil {
		h.BadRequest(c, "Invalid multipart form")
		return
	}
	defer closeAll()

	product, err := h.productService.AddImages(c.Request.Context(), id, images)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", msgProductNotFound)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.MessageResponse{Message: "Product deleted"})
}

// formImages opens every file under the images field. A request without a
// multipart body yields no images. The returned func closes the opened files.
func (h *ProductHandler) formImages(c *gin.Context) ([]catalog.ImageUpload, func(), error) {
	noop := func() {}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, err
	}

	headers := form.File[imagesFormField]
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	images := make([]catalog.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, noop, err
		}
		files = append(files, f)
		images = append(images, catalog.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return images, closeAll, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
