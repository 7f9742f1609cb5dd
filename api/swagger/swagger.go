package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Van Bang API",
        "description": "Diploma registry: yearly books, graduation decisions, diploma entries and public verification",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Books", "description": "Yearly diploma books"},
        {"name": "Decisions", "description": "Graduation decisions"},
        {"name": "Fields", "description": "Extra diploma field templates"},
        {"name": "Diplomas", "description": "Diploma entries"},
        {"name": "Lookup", "description": "Public verification"},
        {"name": "Statistics", "description": "Ledger statistics"},
        {"name": "Ledger", "description": "Whole-ledger transfer"},
        {"name": "Exports", "description": "Printable registers"}
    ],
    "paths": {
        "/diploma-books": {
            "get": {"tags": ["Books"], "summary": "List diploma books", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {
                "tags": ["Books"],
                "summary": "Open a diploma book for a year",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate year", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/diploma-books/{id}": {
            "get": {"tags": ["Books"], "summary": "Get diploma book", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}},
            "put": {"tags": ["Books"], "summary": "Update diploma book", "parameters": [{"$ref": "#/parameters/id"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Books"], "summary": "Delete an unused diploma book", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}, "412": {"description": "Book still referenced"}}}
        },
        "/graduation-decisions": {
            "get": {"tags": ["Decisions"], "summary": "List graduation decisions", "parameters": [{"name": "diplomaBookId", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Decisions"], "summary": "Record a graduation decision", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/graduation-decisions/{id}": {
            "get": {"tags": ["Decisions"], "summary": "Get graduation decision", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Decisions"], "summary": "Update graduation decision", "parameters": [{"$ref": "#/parameters/id"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Decisions"], "summary": "Delete graduation decision", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/diploma-fields": {
            "get": {"tags": ["Fields"], "summary": "List diploma field templates", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Fields"], "summary": "Declare a diploma field", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FieldTemplateRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/diploma-fields/{id}": {
            "put": {"tags": ["Fields"], "summary": "Update a diploma field", "parameters": [{"$ref": "#/parameters/id"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FieldTemplateRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Fields"], "summary": "Delete a diploma field", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/diplomas": {
            "get": {
                "tags": ["Diplomas"],
                "summary": "List diploma entries",
                "parameters": [
                    {"name": "diplomaBookId", "in": "query", "type": "string"},
                    {"name": "decisionId", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {"tags": ["Diplomas"], "summary": "Record a diploma in its book", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDiplomaRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Invalid fields"}, "404": {"description": "Book or decision not found"}}}
        },
        "/diplomas/{id}": {
            "get": {"tags": ["Diplomas"], "summary": "Get diploma entry", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Diplomas"], "summary": "Update diploma entry", "parameters": [{"$ref": "#/parameters/id"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDiplomaRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Diplomas"], "summary": "Delete diploma entry", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/diplomas/{id}/lookups": {
            "get": {"tags": ["Diplomas"], "summary": "Verification history of a diploma", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/lookup/diplomas": {
            "get": {
                "tags": ["Lookup"],
                "summary": "Search diplomas by at least two criteria",
                "parameters": [
                    {"name": "diplomaSerialNumber", "in": "query", "type": "string"},
                    {"name": "bookEntryNumber", "in": "query", "type": "integer"},
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "fullName", "in": "query", "type": "string"},
                    {"name": "dateOfBirth", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Fewer than two criteria"}}
            }
        },
        "/lookup/diplomas/{id}": {
            "get": {"tags": ["Lookup"], "summary": "Show a diploma and record the verification", "parameters": [{"$ref": "#/parameters/id"}, {"name": "X-Lookup-Source", "in": "header", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}}
        },
        "/statistics": {
            "get": {"tags": ["Statistics"], "summary": "Ledger statistics", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/ledger/export": {
            "get": {"tags": ["Ledger"], "summary": "Download every collection as one JSON document", "responses": {"200": {"description": "Ledger document"}}}
        },
        "/ledger/import": {
            "post": {"tags": ["Ledger"], "summary": "Replace every collection", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/ledger/verify": {
            "get": {"tags": ["Ledger"], "summary": "Report dangling references", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/exports": {
            "post": {"tags": ["Exports"], "summary": "Queue a printable register export", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}], "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/exports/{id}": {
            "get": {"tags": ["Exports"], "summary": "Export job status", "parameters": [{"$ref": "#/parameters/id"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/export/{token}": {
            "get": {"tags": ["Exports"], "summary": "Download a rendered register", "produces": ["application/octet-stream"], "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "File"}, "403": {"description": "Invalid or expired token"}}}
        }
    },
    "parameters": {
        "id": {"name": "id", "in": "path", "required": true, "type": "string"}
    },
    "definitions": {
        "BookRequest": {
            "type": "object",
            "required": ["year"],
            "properties": {
                "year": {"type": "integer"},
                "startDate": {"type": "string", "format": "date"},
                "endDate": {"type": "string", "format": "date"}
            }
        },
        "DecisionRequest": {
            "type": "object",
            "required": ["decisionNumber", "issuanceDate", "diplomaBookId"],
            "properties": {
                "decisionNumber": {"type": "string"},
                "issuanceDate": {"type": "string", "format": "date"},
                "summary": {"type": "string"},
                "diplomaBookId": {"type": "string"}
            }
        },
        "FieldTemplateRequest": {
            "type": "object",
            "required": ["name", "dataType"],
            "properties": {
                "name": {"type": "string"},
                "dataType": {"type": "string", "enum": ["String", "Number", "Date"]},
                "isRequired": {"type": "boolean"},
                "defaultValue": {}
            }
        },
        "CreateDiplomaRequest": {
            "type": "object",
            "required": ["diplomaBookId", "decisionId", "diplomaSerialNumber", "studentId", "fullName", "dateOfBirth"],
            "properties": {
                "diplomaBookId": {"type": "string"},
                "decisionId": {"type": "string"},
                "diplomaSerialNumber": {"type": "string"},
                "studentId": {"type": "string"},
                "fullName": {"type": "string"},
                "dateOfBirth": {"type": "string", "format": "date"},
                "additionalFields": {"type": "object"}
            }
        },
        "UpdateDiplomaRequest": {
            "type": "object",
            "required": ["decisionId", "diplomaSerialNumber", "studentId", "fullName", "dateOfBirth"],
            "properties": {
                "decisionId": {"type": "string"},
                "diplomaSerialNumber": {"type": "string"},
                "studentId": {"type": "string"},
                "fullName": {"type": "string"},
                "dateOfBirth": {"type": "string", "format": "date"},
                "additionalFields": {"type": "object"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "diplomaBookId": {"type": "string"},
                "year": {"type": "integer"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
