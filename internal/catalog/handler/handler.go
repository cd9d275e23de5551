package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/treeshop/catalog/internal/catalog"
	"github.com/treeshop/catalog/internal/catalog/service"
	"github.com/treeshop/catalog/pkg/logger"
)

const (
	LivenessMessage = "Docker is running and the backend is working!"
	DeletedMessage  = "Product deleted successfully"

	// room for the name/description parts around the image
	formOverhead = 1 << 20
)

// Options tune the catalog routes.
type Options struct {
	// MaxUploadBytes caps the image size; zero means no limit.
	MaxUploadBytes int64
}

type catalogHandler struct {
	svc  service.Service
	opts Options
}

// RegisterCatalogRoutes registers the product endpoints and the liveness root.
func RegisterCatalogRoutes(r gin.IRoutes, svc service.Service, opts Options) {
	h := &catalogHandler{svc: svc, opts: opts}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, LivenessMessage)
	})
	r.POST("/add-product", h.create)
	r.GET("/products", h.list)
	r.GET("/product/:id", h.get)
	r.PUT("/product/:id", h.update)
	r.DELETE("/product/:id", h.delete)
}

func (h *catalogHandler) create(c *gin.Context) {
	img, closeFn, err := h.image(c)
	if err != nil {
		fail(c, "Error creating product", err)
		return
	}
	defer closeFn()

	item, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Image:       img,
	})
	if err != nil {
		fail(c, "Error creating product", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *catalogHandler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, "Error getting products", err)
		return
	}
	if items == nil {
		items = []*catalog.Item{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *catalogHandler) get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "Error getting product", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *catalogHandler) update(c *gin.Context) {
	img, closeFn, err := h.image(c)
	if err != nil {
		fail(c, "Error updating product", err)
		return
	}
	defer closeFn()

	res, err := h.svc.Update(c.Request.Context(), c.Param("id"), service.UpdateInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Image:       img,
	})
	if err != nil {
		fail(c, "Error updating product", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *catalogHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, "Error deleting product", err)
		return
	}
	c.String(http.StatusOK, DeletedMessage)
}

// image returns the optional "image" part of a multipart body. A request
// without the part (or without a multipart body) yields a nil upload.
func (h *catalogHandler) image(c *gin.Context) (*catalog.Upload, func(), error) {
	noop := func() {}
	if h.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes+formOverhead)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, noop, catalog.ErrFileTooLarge
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, noop, nil
		}
		return nil, noop, catalog.Validationf("invalid multipart form: %v", err)
	}
	if h.opts.MaxUploadBytes > 0 && fh.Size > h.opts.MaxUploadBytes {
		return nil, noop, catalog.ErrFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, catalog.Validationf("open uploaded file: %v", err)
	}
	return uploadFrom(fh, f), func() { _ = f.Close() }, nil
}

func uploadFrom(fh *multipart.FileHeader, f multipart.File) *catalog.Upload {
	return &catalog.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
}

// fail writes err as {"error": msg} with the status mapped from the error kind.
func fail(c *gin.Context, action string, err error) {
	status := catalog.MapHTTPStatus(err)
	var msg string
	switch status {
	case http.StatusNotFound:
		msg = "Product not found"
	case http.StatusInternalServerError:
		msg = action + ": " + err.Error()
		logger.With("method", c.Request.Method, "path", c.Request.URL.Path).Errorf("%s: %v", action, err)
	default:
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
