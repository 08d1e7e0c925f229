// Package docs registers the Swagger 2.0 document served at /swagger/*.
// Keep it in sync with the handler annotations and openapi.yaml.
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service banner",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/analyze": {
            "get": {
                "description": "Fetches top-level comments, classifies each comment's emotion and returns the distribution chart.",
                "produces": ["image/png"],
                "tags": ["analyses"],
                "summary": "Analyze the emotions in a video's comments",
                "parameters": [
                    {"type": "string", "description": "YouTube video URL", "name": "video_url", "in": "query", "required": true},
                    {"type": "integer", "default": 100, "description": "Maximum comments to analyze", "name": "max_comments", "in": "query"},
                    {"type": "string", "default": "bar", "description": "bar or pie", "name": "chart_type", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "file"},
                        "headers": {"X-Analysis-ID": {"type": "string", "description": "Analysis id"}}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/analyses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analyses"],
                "summary": "List analyses, newest first",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.AnalysisListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/analyses/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analyses"],
                "summary": "Get an analysis with its comments",
                "parameters": [
                    {"type": "string", "description": "Analysis id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Analysis"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            },
            "delete": {
                "tags": ["analyses"],
                "summary": "Delete an analysis and its chart",
                "parameters": [
                    {"type": "string", "description": "Analysis id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/analyses/{id}/chart": {
            "get": {
                "produces": ["image/png"],
                "tags": ["analyses"],
                "summary": "Download the chart of an analysis",
                "parameters": [
                    {"type": "string", "description": "Analysis id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/analyses/{id}/chart-url": {
            "get": {
                "produces": ["application/json"],
                "tags": ["analyses"],
                "summary": "Presigned download URL for the chart of an analysis",
                "parameters": [
                    {"type": "string", "description": "Analysis id", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "URL lifetime, e.g. 15m", "name": "expiry", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe (database and cache)",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "model.AnalyzedComment": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "comment": {"type": "string"},
                "comment_id": {"type": "string"},
                "confidence": {"type": "number"},
                "date": {"type": "string"},
                "emotion": {"type": "string"},
                "likes": {"type": "integer"},
                "processed_comment": {"type": "string"}
            }
        },
        "model.EmotionCount": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "emotion": {"type": "string"}
            }
        },
        "model.Analysis": {
            "type": "object",
            "properties": {
                "channel": {"type": "string"},
                "chart_path": {"type": "string"},
                "chart_type": {"type": "string", "enum": ["bar", "pie"]},
                "comments": {"type": "array", "items": {"$ref": "#/definitions/model.AnalyzedComment"}},
                "created_at": {"type": "string"},
                "distribution": {"type": "array", "items": {"$ref": "#/definitions/model.EmotionCount"}},
                "id": {"type": "string"},
                "language": {"type": "string"},
                "total_comments": {"type": "integer"},
                "video_id": {"type": "string"},
                "video_title": {"type": "string"}
            }
        },
        "service.AnalysisListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Analysis"}},
                "total": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "YouTube Emotion API",
	Description:      "Emotion analysis of YouTube video comments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
