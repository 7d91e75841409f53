// Package docs Swagger-описание API сервиса переименования креативов.
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
        "/api/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/api/metrics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Request metrics",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/metrics/errors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Error metrics",
                "parameters": [
                    {"type": "integer", "description": "Number of last errors (default 50)", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/metrics/errors/reset": {
            "post": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Reset error metrics",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/api/preview": {
            "post": {
                "description": "Matches every archive entry against the names of the T-sheet",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["renamer"],
                "summary": "Preview matches",
                "parameters": [
                    {"type": "file", "description": "ZIP archive with creatives", "name": "zip_file", "in": "formData", "required": true},
                    {"type": "file", "description": "T-sheet (.xlsx, .xlsm or .csv)", "name": "sheet", "in": "formData", "required": true},
                    {"type": "number", "description": "Advisory threshold, 0..1 or 0..100 (default 0.7)", "name": "threshold", "in": "formData"},
                    {"type": "string", "description": "Workbook sheet", "name": "sheet_name", "in": "formData"},
                    {"type": "string", "description": "Header of the names column", "name": "column_header", "in": "formData"},
                    {"type": "integer", "description": "Zero-based names column", "name": "column_index", "in": "formData"},
                    {"type": "string", "description": "greedy or exclusive", "name": "strategy", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.PreviewResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/rename": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/zip"],
                "tags": ["renamer"],
                "summary": "Rename archive entries",
                "parameters": [
                    {"type": "file", "description": "ZIP archive with creatives", "name": "zip_file", "in": "formData", "required": true},
                    {"type": "file", "description": "T-sheet (.xlsx, .xlsm or .csv)", "name": "sheet", "in": "formData", "required": true},
                    {"type": "number", "description": "Advisory threshold", "name": "threshold", "in": "formData"},
                    {"type": "string", "description": "Workbook sheet", "name": "sheet_name", "in": "formData"},
                    {"type": "string", "description": "Header of the names column", "name": "column_header", "in": "formData"},
                    {"type": "integer", "description": "Zero-based names column", "name": "column_index", "in": "formData"},
                    {"type": "string", "description": "greedy or exclusive", "name": "strategy", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/log": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["renamer"],
                "summary": "Rename log",
                "parameters": [
                    {"type": "file", "description": "ZIP archive with creatives", "name": "zip_file", "in": "formData", "required": true},
                    {"type": "file", "description": "T-sheet (.xlsx, .xlsm or .csv)", "name": "sheet", "in": "formData", "required": true},
                    {"type": "string", "description": "csv (default) or xlsx", "name": "format", "in": "formData"},
                    {"type": "string", "description": "Workbook sheet", "name": "sheet_name", "in": "formData"},
                    {"type": "string", "description": "Header of the names column", "name": "column_header", "in": "formData"},
                    {"type": "string", "description": "greedy or exclusive", "name": "strategy", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/compare": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["compare"],
                "summary": "Compare two archives",
                "parameters": [
                    {"type": "file", "description": "First archive", "name": "zip1", "in": "formData", "required": true},
                    {"type": "file", "description": "Second archive", "name": "zip2", "in": "formData", "required": true},
                    {"type": "string", "description": "full (default) or basename", "name": "path_mode", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/diff.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/api/html5/validate": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["html5"],
                "summary": "Validate an HTML5 creative",
                "parameters": [
                    {"type": "file", "description": "HTML5 creative archive", "name": "zip_file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/html5.Report"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "matching.Result": {
            "type": "object",
            "properties": {
                "file_path": {"type": "string"},
                "file_stem": {"type": "string"},
                "extension": {"type": "string"},
                "matched_name": {"type": "string"},
                "score": {"type": "integer"},
                "below_threshold": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "services.SheetInfo": {
            "type": "object",
            "properties": {
                "format": {"type": "string"},
                "sheet_name": {"type": "string"},
                "column": {"type": "integer"},
                "header_row": {"type": "integer"},
                "strategy": {"type": "string"}
            }
        },
        "services.PreviewResponse": {
            "type": "object",
            "properties": {
                "preview": {"type": "array", "items": {"$ref": "#/definitions/matching.Result"}},
                "sheet_names_count": {"type": "integer"},
                "threshold": {"type": "integer"},
                "strategy": {"type": "string"},
                "failed_entries": {"type": "integer"},
                "sheet": {"$ref": "#/definitions/services.SheetInfo"}
            }
        },
        "diff.Summary": {
            "type": "object",
            "properties": {
                "only_in_1": {"type": "integer"},
                "only_in_2": {"type": "integer"},
                "same_content": {"type": "integer"},
                "different_content": {"type": "integer"}
            }
        },
        "diff.SkippedEntry": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "diff.Result": {
            "type": "object",
            "properties": {
                "only_in_1": {"type": "array", "items": {"type": "string"}},
                "only_in_2": {"type": "array", "items": {"type": "string"}},
                "same_content": {"type": "array", "items": {"type": "string"}},
                "different_content": {"type": "array", "items": {"type": "string"}},
                "summary": {"$ref": "#/definitions/diff.Summary"},
                "skipped_1": {"type": "array", "items": {"$ref": "#/definitions/diff.SkippedEntry"}},
                "skipped_2": {"type": "array", "items": {"$ref": "#/definitions/diff.SkippedEntry"}}
            }
        },
        "html5.Report": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "warnings": {"type": "array", "items": {"type": "string"}},
                "file_count": {"type": "integer"},
                "index_path": {"type": "string"},
                "initial_load_kb": {"type": "number"},
                "ad_size": {"type": "string"},
                "missing_assets": {"type": "array", "items": {"type": "string"}}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "boolean"},
                "message": {"type": "string"},
                "kind": {"type": "string"},
                "request_id": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Creative Renamer API",
	Description:      "Matches creative archives against T-sheet names, renames them and compares archives.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
