package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Class Performance API",
        "description": "Rankings, status classification, activity summaries and recommendations for class performance dashboards",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Performance", "description": "Class ranking, summaries and student insight"},
        {"name": "Ops", "description": "Operational endpoints"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Ops"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness check for PostgreSQL and Redis",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "Degraded"}}
            }
        },
        "/subjects/{subjectCode}/ranking": {
            "get": {
                "tags": ["Performance"],
                "summary": "Class ranking by average",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "query", "type": "string", "description": "Required for ADMIN and SUPERADMIN"},
                    {"name": "direction", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "limit", "in": "query", "type": "integer", "minimum": 0, "maximum": 500}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectCode}/ranking/export": {
            "get": {
                "tags": ["Performance"],
                "summary": "Download the class ranking as CSV",
                "produces": ["text/csv"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "query", "type": "string", "description": "Required for ADMIN and SUPERADMIN"},
                    {"name": "direction", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "limit", "in": "query", "type": "integer", "minimum": 0, "maximum": 500}
                ],
                "responses": {
                    "200": {"description": "CSV file", "schema": {"type": "file"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectCode}/performers": {
            "get": {
                "tags": ["Performance"],
                "summary": "Top and bottom performers",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "query", "type": "string", "description": "Required for ADMIN and SUPERADMIN"},
                    {"name": "n", "in": "query", "type": "integer", "minimum": 0, "maximum": 500}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectCode}/activities/summary": {
            "get": {
                "tags": ["Performance"],
                "summary": "Activity aggregates by status and type",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "query", "type": "string", "description": "Required for ADMIN and SUPERADMIN"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectCode}/overview": {
            "get": {
                "tags": ["Performance"],
                "summary": "Class overview",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "query", "type": "string", "description": "Required for ADMIN and SUPERADMIN"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectCode}/students/{studentId}/insight": {
            "get": {
                "tags": ["Performance"],
                "summary": "Student insight with recommendations",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "query", "type": "string", "description": "Required for ADMIN and SUPERADMIN"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectCode}/refresh": {
            "post": {
                "tags": ["Performance"],
                "summary": "Invalidate cached data and schedule a warm-up",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "subjectCode", "in": "path", "required": true, "type": "string"},
                    {"name": "professorId", "in": "query", "type": "string", "description": "Required for ADMIN and SUPERADMIN"}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ops/metrics": {
            "get": {
                "tags": ["Ops"],
                "summary": "Aggregated service metrics",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {
                    "type": "object",
                    "properties": {
                        "cache_hit": {"type": "boolean"},
                        "processing_time_ms": {"type": "integer"},
                        "theme": {"type": "string", "enum": ["light", "dark"]}
                    }
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
