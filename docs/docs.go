// Package docs holds the OpenAPI document served by the swagger endpoint.
// Regenerate it from the handler annotations with `swag init -g cmd/server/main.go --v3.1`.
package docs

import "github.com/swaggo/swag/v2"

//go:generate swag init -g ../cmd/server/main.go -d ../ -o . --v3.1

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}",
        "contact": {
            "name": "API Support"
        }
    },
    "servers": [
        {"url": "{{.BasePath}}"}
    ],
    "paths": {},
    "components": {
        "securitySchemes": {
            "BearerAuth": {
                "type": "apiKey",
                "in": "header",
                "name": "Authorization",
                "description": "Bearer token authentication. Format: \"Bearer {token}\""
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
	Title:            "Emlak Backend API",
	Description:      "Real estate brokerage portal: public listing search and the back office API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
