// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "openapi": "3.1.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Cloth Store Engineering",
            "email": "dev@clothstore.com"
        },
        "version": "{{.Version}}"
    },
    "servers": [{"url": "//{{.Host}}{{.BasePath}}"}],
    "paths": {
        "/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"],
                "summary": "List orders, newest first",
                "parameters": [{"name": "status", "in": "query", "schema": {"type": "string", "enum": ["pending", "processing", "completed", "cancelled"]}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid status"}, "401": {"description": "Unauthorized"}}
            },
            "post": {
                "tags": ["orders"],
                "summary": "Place an order",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CreateOrderRequest"}}}},
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "503": {"description": "Store unavailable"}}
            }
        },
        "/orders/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"],
                "summary": "Order statistics",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/orders/test/connection": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"],
                "summary": "Store connectivity diagnostics",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Store unavailable"}}
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"],
                "summary": "Get an order",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Order not found"}}
            }
        },
        "/orders/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["orders"],
                "summary": "Update order status",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/UpdateStatusRequest"}}}},
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid status"}, "404": {"description": "Order not found"}, "409": {"description": "Invalid status transition"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LoginRequest"}}}},
                "responses": {"200": {"description": "OK"}, "400": {"description": "Missing credentials"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Administrator log in",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LoginRequest"}}}},
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/auth/verify": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Verify the current token",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Revoke the current token",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/products": {
            "get": {
                "tags": ["products"],
                "summary": "List products",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Create a product with images",
                "requestBody": {"required": true, "content": {"multipart/form-data": {"schema": {"type": "object", "properties": {"name": {"type": "string"}, "price": {"type": "string"}, "description": {"type": "string"}, "category": {"type": "string"}, "color": {"type": "string"}, "images": {"type": "array", "items": {"type": "string", "format": "binary"}}}}}}},
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Product not found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Delete a product and its images",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Product not found"}}
            }
        },
        "/products/{id}/sold-out": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Mark a product sold out or available",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Product not found"}}
            }
        },
        "/products/{id}/images": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Append images to a product",
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "No images uploaded"}, "404": {"description": "Product not found"}}
            }
        },
        "/contact/send": {
            "post": {
                "tags": ["contact"],
                "summary": "Send a contact message",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ContactRequest"}}}},
                "responses": {"200": {"description": "OK"}, "400": {"description": "All fields are required"}, "500": {"description": "Failed to send message"}}
            }
        },
        "/system/info": {
            "get": {
                "tags": ["system"],
                "summary": "Service information",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "components": {
        "schemas": {
            "CreateOrderRequest": {
                "type": "object",
                "required": ["customer", "items", "totalAmount"],
                "properties": {
                    "customer": {
                        "type": "object",
                        "required": ["name", "phone", "address"],
                        "properties": {
                            "name": {"type": "string"},
                            "phone": {"type": "string"},
                            "email": {"type": "string"},
                            "address": {"type": "string"}
                        }
                    },
                    "items": {
                        "type": "array",
                        "items": {
                            "type": "object",
                            "properties": {
                                "productId": {"type": "string"},
                                "name": {"type": "string"},
                                "price": {"type": "number"},
                                "quantity": {"type": "integer"}
                            }
                        }
                    },
                    "totalAmount": {"type": "number"},
                    "paymentMethod": {"type": "string", "default": "cash"}
                }
            },
            "UpdateStatusRequest": {
                "type": "object",
                "required": ["status"],
                "properties": {"status": {"type": "string", "enum": ["pending", "processing", "completed", "cancelled"]}}
            },
            "ContactRequest": {
                "type": "object",
                "required": ["name", "email", "message"],
                "properties": {"name": {"type": "string"}, "email": {"type": "string", "format": "email"}, "message": {"type": "string"}}
            },
            "LoginRequest": {
                "type": "object",
                "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
            }
        },
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
	Host:             "localhost:5000",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Cloth Store API",
	Description:      "Storefront checkout, order administration, product catalog and contact form.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
