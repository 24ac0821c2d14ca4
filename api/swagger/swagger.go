package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Notice Board API",
        "description": "Notices and student login records for the campus notice board.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Notices", "description": "Published notices, newest first"},
        {"name": "Students", "description": "Student login log"},
        {"name": "Blobs", "description": "Content-addressed notice payloads"},
        {"name": "Health", "description": "Liveness and readiness"}
    ],
    "paths": {
        "/": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness banner",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness check",
                "description": "status is degraded while the last persist failed and the board serves from memory.",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/notices": {
            "get": {
                "tags": ["Notices"],
                "summary": "List notices",
                "parameters": [
                    {"name": "dept", "in": "query", "type": "string", "description": "Department; ALL notices are always included"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Notice"}}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "post": {
                "tags": ["Notices"],
                "summary": "Publish notice",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateNoticeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Notice"}},
                    "400": {"description": "Title and file data are required", "schema": {"$ref": "#/definitions/APIError"}},
                    "413": {"description": "Body too large", "schema": {"$ref": "#/definitions/APIError"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/notices/{id}": {
            "delete": {
                "tags": ["Notices"],
                "summary": "Delete notice",
                "description": "Deleting an unknown id still succeeds.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer", "format": "int64"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "id is not an integer", "schema": {"$ref": "#/definitions/APIError"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List student logins",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/StudentLogin"}}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Record student login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentLoginRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/StudentLogin"}},
                    "400": {"description": "Name and Dept are required", "schema": {"$ref": "#/definitions/APIError"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/students/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Download the student login log",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/api/blobs/{key}": {
            "get": {
                "tags": ["Blobs"],
                "summary": "Download a notice payload",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Payload", "schema": {"type": "file"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "Notice": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "format": "int64"},
                "title": {"type": "string"},
                "dept": {"type": "string"},
                "data": {"type": "string", "description": "data: URI or URL of the attached file"},
                "type": {"type": "string"},
                "date": {"type": "string", "example": "01 Jan 2024"}
            }
        },
        "CreateNoticeRequest": {
            "type": "object",
            "required": ["title", "data"],
            "properties": {
                "title": {"type": "string"},
                "dept": {"type": "string"},
                "data": {"type": "string"},
                "type": {"type": "string"},
                "date": {"type": "string"}
            }
        },
        "StudentLogin": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "format": "int64"},
                "name": {"type": "string"},
                "dept": {"type": "string"},
                "loginTime": {"type": "string", "format": "date-time"}
            }
        },
        "CreateStudentLoginRequest": {
            "type": "object",
            "required": ["name", "dept"],
            "properties": {
                "name": {"type": "string"},
                "dept": {"type": "string"}
            }
        },
        "Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "detail": {"type": "string"}
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
