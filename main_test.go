package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/treeshop/catalog/internal/catalog/repository"
	"github.com/treeshop/catalog/internal/config"
	"github.com/treeshop/catalog/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		CORS:   config.CORSConfig{Origin: "http://localhost:3000"},
		Upload: config.UploadConfig{MaxSize: "1MB", MaxSizeBytes: 1_000_000},
	}
}

func TestRouterServesCatalogAndMemoryBlobs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mem := storage.NewMemoryStorage("catalog-images", "http://localhost:5000/blobs")
	r := newRouter(testConfig(), deps{repo: repository.NewMemoryRepo(), blobs: mem})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", "Birch"))
	fw, err := mw.CreateFormFile("image", "birch.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("birch-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/add-product", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	var created struct {
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	u, err := url.Parse(created.ImageURL)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, u.EscapedPath(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "birch-bytes", w.Body.String())
}

func TestLocalHost(t *testing.T) {
	require.Equal(t, "localhost", localHost("0.0.0.0"))
	require.Equal(t, "localhost", localHost(""))
	require.Equal(t, "catalog.local", localHost("catalog.local"))
}

func TestReadyReportsMongoFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mem := storage.NewMemoryStorage("catalog-images", "http://localhost:5000/blobs")
	r := newRouter(testConfig(), deps{repo: repository.NewMemoryRepo(), blobs: mem, mongoDown: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), `"mongo":false`)
}
