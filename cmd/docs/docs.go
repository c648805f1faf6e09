// Package docs registers the OpenAPI document served by the swagger UI.
// Regenerate with: swag init -g cmd/ledger_backend/main.go -o cmd/docs
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
        "/accounts": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["accounts"], "summary": "List accounts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["accounts"], "summary": "Create an account", "responses": {"201": {"description": "Created"}}}
        },
        "/accounts/reconcile": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["accounts"], "summary": "Reconcile cached balances", "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["accounts"], "summary": "Get an account", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["accounts"], "summary": "Update an account", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Delete an account", "responses": {"204": {"description": "No Content"}}}
        },
        "/journal-entries": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["journal"], "summary": "List journal entries", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["journal"], "summary": "Create a draft entry", "responses": {"201": {"description": "Created"}}}
        },
        "/journal-entries/{id}/post": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["journal"], "summary": "Post a draft entry", "responses": {"200": {"description": "OK"}}}
        },
        "/journal-entries/{id}/reverse": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["journal"], "summary": "Reverse a posted entry", "responses": {"201": {"description": "Created"}}}
        },
        "/events/{event}": {
            "post": {"security": [{"BearerAuth": []}, {"ServiceToken": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["events"], "summary": "Record a membership event", "responses": {"201": {"description": "Created"}, "202": {"description": "Accepted, ledger accounts not configured"}}}
        },
        "/reports/trial-balance": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["reports"], "summary": "Get trial balance", "responses": {"200": {"description": "OK"}}}
        },
        "/reports/general-ledger/{accountID}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["reports"], "summary": "Get general ledger of an account", "responses": {"200": {"description": "OK"}}}
        },
        "/reports/balance-sheet": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["reports"], "summary": "Get balance sheet", "responses": {"200": {"description": "OK"}}}
        },
        "/reports/income-statement": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["reports"], "summary": "Get income statement", "responses": {"200": {"description": "OK"}}}
        },
        "/reports/cash-flow": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["reports"], "summary": "Get cash flow statement", "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"},
        "ServiceToken": {"description": "name:secret of a configured service token.", "type": "apiKey", "name": "x-api-key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Member Ledger API",
	Description:      "Double-entry ledger and financial reports for a membership organisation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
