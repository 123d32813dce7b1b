// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lebem/lebem-backend/internal/models"
)

const maxAuditBody = 64 << 10

var redactedFields = map[string]bool{
	"password":     true,
	"access_token": true,
	"token":        true,
}

// AuditLogMiddleware stores one audit row per admin mutation. Reads and
// multipart uploads keep no request body.
func AuditLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		var requestBody []byte
		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			requestBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody))
			c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
		}

		c.Next()

		auditLog := buildAuditLog(c, requestBody)

		// Save audit log asynchronously
		go func() {
			if err := db.Create(auditLog).Error; err != nil {
				logrus.WithError(err).Error("Failed to create audit log")
			}
		}()
	}
}

func buildAuditLog(c *gin.Context, requestBody []byte) *models.AuditLog {
	resourceType, resourceKey := extractResource(c.Request.URL.Path)

	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}

	auditLog := &models.AuditLog{
		Action:       c.Request.Method + " " + route,
		ResourceType: resourceType,
		ResourceKey:  resourceKey,
		Status:       c.Writer.Status(),
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		RequestBody:  redactBody(requestBody),
	}

	if adminID := c.GetString("admin_id"); adminID != "" {
		if parsed, err := uuid.Parse(adminID); err == nil {
			auditLog.AdminID = &parsed
		}
	}
	return auditLog
}

// redactBody masks credentials. Non-object bodies are dropped.
func redactBody(body []byte) datatypes.JSON {
	if len(body) == 0 {
		return nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil
	}
	for key := range data {
		if redactedFields[strings.ToLower(key)] {
			data[key] = "***"
		}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return datatypes.JSON(encoded)
}

// extractResource returns the resource segment that follows "admin" and the
// slug or id after it, if any.
func extractResource(path string) (string, string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part != "admin" || i+1 >= len(parts) {
			continue
		}
		resourceType := parts[i+1]
		if i+2 < len(parts) && parts[i+2] != "bulk" {
			return resourceType, parts[i+2]
		}
		return resourceType, ""
	}
	if len(parts) >= 1 {
		return parts[len(parts)-1], ""
	}
	return "unknown", ""
}

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Milliseconds(),
			"ip":       c.ClientIP(),
			"lang":     c.GetString("lang"),
		})
		if adminID := c.GetString("admin_id"); adminID != "" {
			entry = entry.WithField("admin_id", adminID)
		}
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request processed")
		}
	}
}
