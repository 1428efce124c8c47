// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g server/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/theaters/{id}/available-slots": {
            "get": {
                "tags": ["theaters"],
                "summary": "Bookable slots of a theater on a day",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "date", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/payments/orders": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"],
                "summary": "Hold a slot and open a gateway order",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Slot unavailable"}}
            }
        },
        "/bookings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["bookings"],
                "summary": "Allocate a slot and verify the payment",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Payment verification failed"}, "409": {"description": "Slot already booked"}}
            }
        },
        "/payments/verify": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["payments"],
                "summary": "Verify a gateway payment signature",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/coupons/apply": {
            "post": {
                "tags": ["coupons"],
                "summary": "Price a cart with a coupon code",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Coupon rejected"}}
            }
        },
        "/auth/otp/send": {
            "post": {"tags": ["auth"], "summary": "Mail a login code", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/otp/verify": {
            "post": {"tags": ["auth"], "summary": "Exchange a login code for tokens", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Theaterbook API",
	Description:      "Private theater booking: availability, checkout and administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
