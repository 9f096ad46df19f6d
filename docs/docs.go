// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/vendors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Displays"],
                "summary": "List supported vendors",
                "responses": {"200": {"description": "Vendors listed"}}
            }
        },
        "/displays/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Displays"],
                "summary": "Check whether a display answers",
                "parameters": [
                    {"type": "string", "name": "port", "in": "query", "required": true},
                    {"type": "string", "name": "vendor", "in": "query", "required": true},
                    {"type": "integer", "name": "id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Readiness reported"},
                    "400": {"description": "Invalid address"},
                    "502": {"description": "Serial port failure"}
                }
            }
        },
        "/displays/power": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Displays"],
                "summary": "Get power state",
                "responses": {"200": {"description": "Power state"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Displays"],
                "summary": "Set power state",
                "responses": {"200": {"description": "Command acknowledged or not"}}
            }
        },
        "/displays/input": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Displays"],
                "summary": "Get input source",
                "responses": {"200": {"description": "Input source"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Displays"],
                "summary": "Select input source",
                "responses": {"200": {"description": "Command acknowledged or not"}}
            }
        },
        "/displays/identity": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Displays"],
                "summary": "Read identity fields",
                "responses": {"200": {"description": "Identity"}}
            }
        },
        "/discovery/scan": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Discovery"],
                "summary": "Scan for displays",
                "description": "Probe every port for the enabled vendors and id ranges. Blocks until the scan ends or discovery.scan_timeout passes. Hosts with many ports should start long scans over /ws/discovery, which streams each display as it is found.",
                "parameters": [
                    {"type": "string", "default": "all", "name": "vendor", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Scan completed"},
                    "409": {"description": "Another scan is running"}
                }
            }
        },
        "/discovery/last": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Discovery"],
                "summary": "Last scan result",
                "responses": {"200": {"description": "Last scan"}, "404": {"description": "No scan has run yet"}}
            }
        },
        "/discovery/ports": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Discovery"],
                "summary": "List serial ports",
                "responses": {"200": {"description": "Ports listed"}}
            }
        },
        "/discovery/targets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Discovery"],
                "summary": "List scan targets",
                "responses": {"200": {"description": "Targets listed"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8086",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Display Service API",
	Description:      "Serial control of Philips SICP, Samsung MDC and BenQ displays",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
