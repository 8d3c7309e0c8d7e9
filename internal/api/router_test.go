package api

import (
	"testing"

	"butterfly-survey/pkg/router"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	r := router.New()
	RegisterRoutes(r)

	patterns := r.Patterns()
	assert.Contains(t, patterns, "POST /api/v1/surveys")
	assert.Contains(t, patterns, "GET /api/v1/surveys")
	assert.Contains(t, patterns, "GET /api/v1/surveys/{id}")
	assert.Contains(t, patterns, "GET /api/v1/surveys/{id}/errors")
	assert.Contains(t, patterns, "GET /api/v1/surveys/{id}/logs")
	assert.Contains(t, patterns, "GET /api/v1/surveys/{id}/progress")
	assert.Contains(t, patterns, "GET /api/v1/surveys/{id}/artifacts")
	assert.Contains(t, patterns, "GET /api/v1/download/{id}/{file}")
	assert.Contains(t, patterns, "GET /swagger/")
}
