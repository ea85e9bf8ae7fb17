package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wintercraft/storefront/internal/models"
	"github.com/wintercraft/storefront/internal/store"
)

// ProductStore is the subset of the Mongo product store the handlers use.
type ProductStore interface {
	Insert(ctx context.Context, p *models.Product) error
	List(ctx context.Context) ([]models.Product, error)
	GetByCustomID(ctx context.Context, customID string) (*models.Product, error)
	UpdateByCustomID(ctx context.Context, customID string, upd models.ProductUpdate) (*models.Product, error)
	DeleteByCustomID(ctx context.Context, customID string) error
}

// ProductCache is the read-side list cache. May be absent (nil handler
// field) when Redis is not configured.
type ProductCache interface {
	GetList(ctx context.Context) ([]models.Product, error)
	SetList(ctx context.Context, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// ImageUploader pushes product images to the external media host.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	Configured() bool
}

// ProductHandler exposes the catalog CRUD. Reads are public; mutations sit
// behind the admin guard at route registration.
type ProductHandler struct {
	products ProductStore
	cache    ProductCache
	uploader ImageUploader
	log      *slog.Logger
}

func NewProductHandler(products ProductStore, cache ProductCache, uploader ImageUploader, log *slog.Logger) *ProductHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProductHandler{products: products, cache: cache, uploader: uploader, log: log}
}

func (h *ProductHandler) Create(c *gin.Context) {
	p, msg := productFromForm(c)
	if msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}
	if p.CustomID == "" {
		p.CustomID = "prod-" + uuid.NewString()[:8]
	}

	images, err := h.uploadImages(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Upload process failed")
		return
	}
	p.Images = images

	if err := h.products.Insert(c.Request.Context(), p); err != nil {
		if errors.Is(err, store.ErrProductExists) {
			respondError(c, http.StatusBadRequest, "Product already exists with the provided customId")
			return
		}
		h.log.Error("product create failed", "error", err)
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	h.invalidateCache(c.Request.Context())
	respondData(c, http.StatusCreated, p)
}

func (h *ProductHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if products, err := h.cache.GetList(ctx); err == nil {
			respondData(c, http.StatusOK, products)
			return
		}
	}

	products, err := h.products.List(ctx)
	if err != nil {
		h.log.Error("product list failed", "error", err)
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetList(ctx, products); err != nil {
			h.log.Warn("product cache fill failed", "error", err)
		}
	}
	respondData(c, http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.GetByCustomID(c.Request.Context(), c.Param("customId"))
	if errors.Is(err, store.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.log.Error("product get failed", "error", err)
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	respondData(c, http.StatusOK, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	p, msg := productFromForm(c)
	if msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	upd := models.ProductUpdate{
		Name:     p.Name,
		Color:    p.Color,
		Variety:  p.Variety,
		Price:    p.Price,
		Age:      p.Age,
		Size:     p.Size,
		Material: p.Material,
	}

	// Images are only replaced when a new batch is uploaded.
	if form, err := c.MultipartForm(); err == nil && len(form.File["images"]) > 0 {
		images, err := h.uploadImages(c)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Upload process failed")
			return
		}
		upd.Images = images
	}

	product, err := h.products.UpdateByCustomID(c.Request.Context(), c.Param("customId"), upd)
	if errors.Is(err, store.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.log.Error("product update failed", "error", err)
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	h.invalidateCache(c.Request.Context())
	respondData(c, http.StatusOK, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	err := h.products.DeleteByCustomID(c.Request.Context(), c.Param("customId"))
	if errors.Is(err, store.ErrProductNotFound) {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.log.Error("product delete failed", "error", err)
		respondError(c, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	h.invalidateCache(c.Request.Context())
	respondMessage(c, http.StatusOK, "Product deleted successfully")
}

func (h *ProductHandler) uploadImages(c *gin.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return []string{}, nil
	}
	files := form.File["images"]
	if len(files) == 0 {
		return []string{}, nil
	}
	if !h.uploader.Configured() {
		return nil, errors.New("media host not configured")
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := h.uploadOne(c, fh)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (h *ProductHandler) uploadOne(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return h.uploader.Upload(c.Request.Context(), fh.Filename, file)
}

func (h *ProductHandler) invalidateCache(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		h.log.Warn("product cache invalidation failed", "error", err)
	}
}

// productFromForm reads the multipart/form fields shared by create and
// update. Returns a non-empty message on validation failure.
func productFromForm(c *gin.Context) (*models.Product, string) {
	p := &models.Product{
		CustomID: c.PostForm("customId"),
		Name:     c.PostForm("name"),
		Color:    c.PostForm("color"),
		Variety:  c.PostForm("variety"),
		Age:      c.PostForm("age"),
		Size:     c.PostForm("size"),
		Material: c.PostForm("material"),
	}
	if p.Name == "" || p.Color == "" || p.Variety == "" || p.Material == "" {
		return nil, "Please fill all the fields"
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		return nil, "Invalid price"
	}
	p.Price = price
	return p, ""
}
