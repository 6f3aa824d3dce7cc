package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers Swagger/OpenAPI endpoints for the meeting service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
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
    <title>crmhub-meetings Swagger</title>
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

// OpenAPI document for the meeting endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "crmhub-meetings", "version": "v0.1.0" },
  "paths": {
    "/api/meeting/add": {
      "post": {
        "summary": "Create a meeting",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"agenda":{"type":"string"},"attendes":{"type":"array","items":{"type":"string"}},"attendesLead":{"type":"array","items":{"type":"string"}},"location":{"type":"string"},"related":{"type":"string"},"dateTime":{"type":"string","format":"date-time"},"notes":{"type":"string"},"createBy":{"type":"string"}}}}}},
        "responses": { "200": { "description": "stored meeting" }, "400": { "description": "invalid attendee id" }, "500": { "description": "storage error" } }
      }
    },
    "/api/meeting/": {
      "get": { "summary": "List meetings (query parameters filter by equality)", "responses": { "200": { "description": "enriched meetings" }, "400": { "description": "invalid filter" }, "500": { "description": "Internal Server Error" } } }
    },
    "/api/meeting/view/{id}": {
      "get": { "summary": "View a meeting with resolved attendees", "responses": { "200": { "description": "meeting" }, "400": { "description": "invalid id" }, "404": { "description": "No meeting found." } } }
    },
    "/api/meeting/edit/{id}": {
      "put": { "summary": "Edit a meeting", "responses": { "200": { "description": "updated meeting" }, "400": { "description": "invalid attendee id" }, "404": { "description": "No meeting found." } } }
    },
    "/api/meeting/delete/{id}": {
      "delete": { "summary": "Soft-delete a meeting", "responses": { "200": { "description": "deleted" }, "404": { "description": "No meeting found." } } }
    },
    "/api/meeting/deleteMany": {
      "post": { "summary": "Soft-delete meetings by id", "requestBody": { "content": { "application/json": { "schema": {"type":"array","items":{"type":"string"}}}}}, "responses": { "200": { "description": "removed" }, "404": { "description": "No meetings found to delete" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
