package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the catalog API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRoutes) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>tree catalog - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "tree catalog", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Product": { "type": "object", "properties": { "id": {"type":"string"}, "name": {"type":"string"}, "description": {"type":"string"}, "imageUrl": {"type":"string"} } },
      "ProductForm": { "type": "object", "required": ["name"], "properties": { "name": {"type":"string"}, "description": {"type":"string"}, "image": {"type":"string","format":"binary"} } },
      "Error": { "type": "object", "properties": { "error": {"type":"string"} } }
    }
  },
  "paths": {
    "/": { "get": { "summary": "Liveness string", "responses": { "200": { "description": "Docker is running and the backend is working!" } } } },
    "/add-product": {
      "post": {
        "summary": "Create a product; the image part is required",
        "requestBody": { "content": { "multipart/form-data": { "schema": {"$ref":"#/components/schemas/ProductForm"} } } },
        "responses": { "201": { "description": "created product" }, "400": { "description": "no file uploaded" }, "413": { "description": "image too large" }, "500": { "description": "store error" } }
      }
    },
    "/products": { "get": { "summary": "List products", "responses": { "200": { "description": "array of products" }, "500": { "description": "store error" } } } },
    "/product/{id}": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": {"type":"string"} } ],
      "get": { "summary": "Get a product", "responses": { "200": { "description": "product" }, "404": { "description": "Product not found" } } },
      "put": {
        "summary": "Update name and description; replace the image when one is sent",
        "requestBody": { "content": { "multipart/form-data": { "schema": {"$ref":"#/components/schemas/ProductForm"} } } },
        "responses": { "200": { "description": "{message, imageUrl?}" }, "404": { "description": "Product not found" }, "500": { "description": "store error" } }
      },
      "delete": { "summary": "Delete a product", "responses": { "200": { "description": "Product deleted successfully" }, "500": { "description": "store error" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
