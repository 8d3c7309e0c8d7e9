// Package docs holds the generated swagger description of the survey API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/surveys": {
            "get": {
                "produces": ["application/json"],
                "tags": ["surveys"],
                "summary": "List all survey runs",
                "responses": {
                    "200": {"description": "List of runs"},
                    "500": {"description": "Internal server error"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["surveys"],
                "summary": "Create a new survey run",
                "parameters": [
                    {
                        "description": "Survey job spec",
                        "name": "survey",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "Run created successfully"},
                    "400": {"description": "Invalid request payload"},
                    "500": {"description": "Internal server error"}
                }
            }
        },
        "/surveys/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["surveys"],
                "summary": "Get survey run",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Run details"},
                    "404": {"description": "Run not found"}
                }
            }
        },
        "/surveys/{id}/errors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["surveys"],
                "summary": "Get run errors",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Run errors"},
                    "500": {"description": "Internal server error"}
                }
            }
        },
        "/surveys/{id}/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["surveys"],
                "summary": "Get run logs",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum lines to return", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Run logs"},
                    "500": {"description": "Internal server error"}
                }
            }
        },
        "/surveys/{id}/progress": {
            "get": {
                "produces": ["application/json"],
                "tags": ["surveys"],
                "summary": "Get run progress",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Stage progress"},
                    "500": {"description": "Internal server error"}
                }
            }
        },
        "/surveys/{id}/artifacts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["surveys"],
                "summary": "List run artifacts",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Artifact list"},
                    "404": {"description": "Run has no artifacts"}
                }
            }
        },
        "/download/{id}/{file}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["surveys"],
                "summary": "Download an artifact",
                "parameters": [
                    {"type": "string", "description": "Run ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Artifact file name", "name": "file", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Artifact content"},
                    "404": {"description": "Artifact not found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Butterfly Survey API",
	Description:      "API for running butterfly field-survey report pipelines and fetching their artifacts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
