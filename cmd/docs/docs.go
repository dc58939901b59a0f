// Package docs holds the OpenAPI document served under /swagger.
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
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List ledger accounts",
                "parameters": [
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListAccountsResponse"}},
                    "400": {"description": "Invalid query parameters"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Open a ledger account",
                "parameters": [
                    {"name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateAccountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.AccountResponse"}},
                    "400": {"description": "Invalid input format or validation error"},
                    "409": {"description": "Account already exists"}
                }
            }
        },
        "/accounts/{accountID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Get an account by ID",
                "parameters": [{"type": "string", "name": "accountID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccountResponse"}},
                    "404": {"description": "Account not found"}
                }
            }
        },
        "/accounts/{accountID}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Change an account's status",
                "parameters": [
                    {"type": "string", "name": "accountID", "in": "path", "required": true},
                    {"name": "status", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateAccountStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccountResponse"}},
                    "400": {"description": "Invalid status or transition"},
                    "404": {"description": "Account not found"}
                }
            }
        },
        "/accounts/{accountID}/entries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List entries posted to an account",
                "parameters": [
                    {"type": "string", "name": "accountID", "in": "path", "required": true},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"type": "string", "name": "nextToken", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListEntriesResponse"}},
                    "400": {"description": "Invalid query parameters"},
                    "404": {"description": "Account not found"}
                }
            }
        },
        "/journals": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["journals"],
                "summary": "Post a journal",
                "parameters": [
                    {"name": "journal", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.PostJournalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.JournalResponse"}},
                    "400": {"description": "Invalid request format"},
                    "409": {"description": "Duplicate reference or unresolved concurrent update"},
                    "422": {"description": "Unbalanced journal, unknown or inactive account, currency mismatch"}
                }
            }
        },
        "/journals/{journalID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["journals"],
                "summary": "Get a journal and its entries",
                "parameters": [{"type": "string", "name": "journalID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.JournalResponse"}},
                    "404": {"description": "Journal not found"}
                }
            }
        },
        "/journals/{journalID}/entries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["journals"],
                "summary": "List the entries of a journal",
                "parameters": [{"type": "string", "name": "journalID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.EntryResponse"}}},
                    "404": {"description": "Journal not found"}
                }
            }
        },
        "/journals/{journalID}/reverse": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["journals"],
                "summary": "Reverse a journal",
                "parameters": [
                    {"type": "string", "name": "journalID", "in": "path", "required": true},
                    {"name": "reversal", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ReverseJournalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.JournalResponse"}},
                    "404": {"description": "Journal not found"},
                    "409": {"description": "Already reversed, is itself a reversal, or reference collision"},
                    "422": {"description": "An account of the journal is no longer active"}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateAccountRequest": {
            "type": "object",
            "required": ["accountType", "currency", "name"],
            "properties": {
                "name": {"type": "string"},
                "accountType": {"type": "string", "enum": ["ASSET", "LIABILITY", "EQUITY", "INCOME", "EXPENSE"]},
                "currency": {"type": "string"},
                "externalRef": {"type": "string"}
            }
        },
        "dto.UpdateAccountStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["ACTIVE", "FROZEN", "CLOSED"]}}
        },
        "dto.AccountResponse": {
            "type": "object",
            "properties": {
                "accountID": {"type": "string"},
                "name": {"type": "string"},
                "accountType": {"type": "string"},
                "status": {"type": "string"},
                "currency": {"type": "string"},
                "externalRef": {"type": "string"},
                "balance": {"type": "string"},
                "version": {"type": "integer"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "dto.ListAccountsResponse": {
            "type": "object",
            "properties": {
                "accounts": {"type": "array", "items": {"$ref": "#/definitions/dto.AccountResponse"}},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"}
            }
        },
        "dto.CreateEntryRequest": {
            "type": "object",
            "required": ["accountID", "amount", "currency", "entryType"],
            "properties": {
                "accountID": {"type": "string"},
                "entryType": {"type": "string", "enum": ["DEBIT", "CREDIT"]},
                "amount": {"type": "string"},
                "currency": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "dto.PostJournalRequest": {
            "type": "object",
            "required": ["entries", "referenceID"],
            "properties": {
                "referenceID": {"type": "string"},
                "description": {"type": "string"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/dto.CreateEntryRequest"}}
            }
        },
        "dto.ReverseJournalRequest": {
            "type": "object",
            "required": ["reason"],
            "properties": {"reason": {"type": "string"}}
        },
        "dto.EntryResponse": {
            "type": "object",
            "properties": {
                "entryID": {"type": "string"},
                "journalID": {"type": "string"},
                "accountID": {"type": "string"},
                "entryType": {"type": "string"},
                "amount": {"type": "string"},
                "currency": {"type": "string"},
                "description": {"type": "string"},
                "postedAt": {"type": "string"}
            }
        },
        "dto.JournalResponse": {
            "type": "object",
            "properties": {
                "journalID": {"type": "string"},
                "referenceID": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string"},
                "postedAt": {"type": "string"},
                "reversalOf": {"type": "string"},
                "reversedBy": {"type": "string"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/dto.EntryResponse"}}
            }
        },
        "dto.ListEntriesResponse": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/dto.EntryResponse"}},
                "nextToken": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Ledger Engine API",
	Description:      "Double-entry posting engine: accounts, journals and reversals.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
