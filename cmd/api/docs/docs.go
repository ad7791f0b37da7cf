// Package docs holds the swagger definition served at /swagger.
// Regenerate with:
// swag init -g cmd/api/main.go --parseDependency --parseInternal --dir ./ --output ./cmd/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/agent/generate_script": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Agent"],
                "summary": "Generate an automation script for one test case",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Unknown knowledge base or HTML document"}
                }
            }
        },
        "/agent/testcases": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Agent"],
                "summary": "Generate test cases from a knowledge base",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Unknown knowledge base"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ingest": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Ingestion"],
                "summary": "Create a knowledge base from uploaded documents",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing name or files"}
                }
            }
        },
        "/kb/delete": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Knowledge Bases"],
                "summary": "Delete a knowledge base",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/kb/list": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Knowledge Bases"],
                "summary": "List knowledge bases",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/kb/rename": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Knowledge Bases"],
                "summary": "Rename a knowledge base",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/kb/view/{kb_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Knowledge Bases"],
                "summary": "View one knowledge base and its documents",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "InsightQA API",
	Description:      "Ingests project documents into per-knowledge-base vector indexes and generates grounded test cases and Selenium scripts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
