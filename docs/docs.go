// Package docs holds the Swagger description served at /swagger. It follows
// the layout swag emits; keep it in step with the @Router annotations.
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
        "/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List orders with their details, newest first",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Create a draft order, allocating a unique order number",
                "parameters": [
                    {"description": "order", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.SaveOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.AppError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apperr.AppError"}}
                }
            }
        },
        "/orders/next-number": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Preview the next order number",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/order.NextNumberResponse"}}}
            }
        },
        "/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order with its details",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.AppError"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Replace the print type and all details of an order",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"description": "order", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.SaveOrderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.AppError"}}
                }
            },
            "delete": {
                "tags": ["orders"],
                "summary": "Delete an order that was never dispatched",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apperr.AppError"}}
                }
            }
        },
        "/orders/{id}/pdf": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["orders"],
                "summary": "Render the order PDF",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/orders/{id}/status": {
            "put": {
                "consumes": ["application/json"],
                "tags": ["orders"],
                "summary": "Change the order status",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"description": "status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.UpdateStatusRequest"}}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/orders/{id}/dispatch": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dispatch"],
                "summary": "Upload the order PDF and send it to typographies",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"description": "recipients", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dispatch.Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dispatch.Result"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperr.AppError"}}
                }
            }
        },
        "/orders/{id}/sends": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dispatch"],
                "summary": "List the typographies an order was sent to, oldest first",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dispatch.Send"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.AppError"}}
                }
            }
        },
        "/typographies": {
            "get": {
                "produces": ["application/json"],
                "tags": ["typographies"],
                "summary": "List typographies by name",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/typography.ListResponse"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["typographies"],
                "summary": "Create a typography",
                "parameters": [{"description": "typography", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/typography.SaveRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/typography.Typography"}}}
            }
        },
        "/typographies/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["typographies"],
                "summary": "Get a typography",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/typography.Typography"}}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["typographies"],
                "summary": "Update a typography",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"description": "typography", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/typography.SaveRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/typography.Typography"}}}
            },
            "delete": {
                "tags": ["typographies"],
                "summary": "Delete a typography",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/functions/send-order-email": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dispatch"],
                "summary": "Resolve recipients and call the e-mail webhook",
                "parameters": [{"description": "notification", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dispatch.Notification"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.AppError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperr.AppError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperr.AppError"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Drain pending notification events",
                "parameters": [{"type": "integer", "name": "max", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "apperr.AppError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "error": {"type": "string"}}
        },
        "order.Detail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "order_id": {"type": "string"},
                "ean_code": {"type": "string"},
                "client_name": {"type": "string"},
                "product_name": {"type": "string"},
                "measurements": {"type": "string"},
                "package_type": {"type": "string"},
                "lot_number": {"type": "string"},
                "expiry_date": {"type": "string"},
                "production_date": {"type": "string"},
                "quantity": {"type": "integer"},
                "fronte_retro": {"type": "boolean"},
                "sagomata": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        },
        "order.DetailInput": {
            "type": "object",
            "required": ["ean_code", "client_name", "product_name"],
            "properties": {
                "ean_code": {"type": "string"},
                "client_name": {"type": "string"},
                "product_name": {"type": "string"},
                "measurements": {"type": "string"},
                "package_type": {"type": "string"},
                "lot_number": {"type": "string"},
                "expiry_date": {"type": "string", "example": "12/2025"},
                "production_date": {"type": "string", "example": "01/2024"},
                "quantity": {"type": "integer"},
                "fronte_retro": {"type": "boolean"},
                "sagomata": {"type": "boolean"}
            }
        },
        "order.NextNumberResponse": {
            "type": "object",
            "properties": {"order_number": {"type": "string"}}
        },
        "order.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "order_number": {"type": "string"},
                "print_type": {"type": "string", "enum": ["etichetta", "astuccio", "blister"]},
                "status": {"type": "string", "enum": ["bozza", "inviato", "completato", "annullato"]},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "order_details": {"type": "array", "items": {"$ref": "#/definitions/order.Detail"}}
            }
        },
        "order.SaveOrderRequest": {
            "type": "object",
            "required": ["print_type", "details"],
            "properties": {
                "order_number": {"type": "string"},
                "print_type": {"type": "string", "enum": ["etichetta", "astuccio", "blister"]},
                "details": {"type": "array", "items": {"$ref": "#/definitions/order.DetailInput"}}
            }
        },
        "order.UpdateStatusRequest": {
            "type": "object",
            "properties": {"status": {"type": "string", "enum": ["bozza", "inviato", "completato", "annullato"]}}
        },
        "dispatch.Request": {
            "type": "object",
            "required": ["typography_ids"],
            "properties": {
                "typography_ids": {"type": "array", "items": {"type": "string"}},
                "subject": {"type": "string"},
                "body_template": {"type": "string"}
            }
        },
        "dispatch.Send": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "order_id": {"type": "string"},
                "typography_id": {"type": "string"},
                "pdf_path": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "dispatch.Result": {
            "type": "object",
            "properties": {
                "order_number": {"type": "string"},
                "pdf_path": {"type": "string"},
                "pdf_url": {"type": "string"},
                "notified": {"type": "boolean"},
                "sends": {"type": "array", "items": {"$ref": "#/definitions/dispatch.Send"}}
            }
        },
        "dispatch.Notification": {
            "type": "object",
            "properties": {
                "pdfPath": {"type": "string"},
                "typographyIds": {"type": "array", "items": {"type": "string"}},
                "subject": {"type": "string"},
                "bodyTemplate": {"type": "string"}
            }
        },
        "typography.SaveRequest": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string"},
                "contact_person": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "typography.Typography": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "contact_person": {"type": "string"},
                "email": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "typography.ListResponse": {
            "type": "object",
            "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/typography.Typography"}}}
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ordini Tipografia API",
	Description:      "Print orders, order PDFs and dispatch to typographies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
