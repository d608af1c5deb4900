// Package docs registers the OpenAPI description served at /swagger/.
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
        "/export": {
            "get": {
                "description": "Returns one row per school with today's student and staff totals, filtered by the query parameters. Each filter accepts comma-separated values and may be repeated.",
                "produces": [
                    "text/csv",
                    "application/json",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "tags": ["Export"],
                "summary": "Export daily school attendance",
                "parameters": [
                    {"type": "string", "description": "District names", "name": "district", "in": "query"},
                    {"type": "string", "description": "Block names", "name": "block", "in": "query"},
                    {"type": "string", "description": "Cluster names", "name": "cluster", "in": "query"},
                    {"type": "string", "description": "School management names", "name": "school_management", "in": "query"},
                    {"type": "string", "description": "Accepted and ignored", "name": "geography", "in": "query"},
                    {"type": "string", "description": "LP, UP, HS or HSS", "name": "school_type", "in": "query"},
                    {"type": "string", "description": "csv (default), json or xlsx", "name": "format", "in": "query"},
                    {"type": "string", "description": "API key, when required", "name": "apikey", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.ExportRow"}}
                    },
                    "401": {
                        "description": "invalid API key",
                        "schema": {"$ref": "#/definitions/errors.ProblemDetails"}
                    },
                    "500": {
                        "description": "database error",
                        "schema": {"$ref": "#/definitions/errors.ProblemDetails"}
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Liveness probe that never touches the database",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/v1.HealthResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "domain.ExportRow": {
            "type": "object",
            "properties": {
                "district": {"type": "string"},
                "block": {"type": "string"},
                "cluster": {"type": "string"},
                "udise_id": {"type": "string"},
                "school_name": {"type": "string"},
                "school_management": {"type": "string"},
                "school_category": {"type": "string", "enum": ["LP", "UP", "HS", "HSS"]},
                "total_students": {"type": "integer"},
                "total_students_present": {"type": "integer"},
                "total_teaching_staff": {"type": "integer"},
                "total_non_teaching_staff": {"type": "integer"},
                "total_teaching_staff_present": {"type": "integer"},
                "total_non_teaching_staff_present": {"type": "integer"}
            }
        },
        "errors.ProblemDetails": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "v1.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "time": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "School Attendance Export Service",
	Description:      "Read-only export of daily school attendance totals.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
