// Package swagger registers the OpenAPI document served under /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Exam Prep API",
        "description": "Question bank filtering, paper assembly, mock tests and exports",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http"],
    "tags": [
        {"name": "Questions", "description": "Filtered question bank and imports"},
        {"name": "Reference", "description": "Subjects, chapters, topics and lookup tables"},
        {"name": "Papers", "description": "Assembled question papers"},
        {"name": "Attempts", "description": "Scored mock tests"},
        {"name": "Exports", "description": "Asynchronous pdf, csv and xlsx renderings"},
        {"name": "Users", "description": "Registration and credential checks"}
    ],
    "paths": {
        "/questions": {
            "get": {
                "tags": ["Questions"],
                "summary": "List questions",
                "parameters": [
                    {"name": "filters", "in": "query", "type": "string", "description": "JSON object with subjectId, chapterId, topicId, difficultyLevelId, questionTypeId"},
                    {"name": "page", "in": "query", "type": "integer", "default": 1},
                    {"name": "limit", "in": "query", "type": "integer", "default": 10},
                    {"name": "excludeIds", "in": "query", "type": "string", "description": "Comma-separated question ids"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/QuestionPage"}},
                    "500": {"description": "Error", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/questions/{id}": {
            "get": {
                "tags": ["Questions"],
                "summary": "Get question",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Question"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/questions/import": {
            "post": {
                "tags": ["Questions"],
                "summary": "Import questions from JSON or an xlsx upload",
                "consumes": ["application/json", "multipart/form-data"],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ImportResult"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "413": {"description": "Too large", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/questions/import/template": {
            "get": {
                "tags": ["Questions"],
                "summary": "Download the import workbook template",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {"200": {"description": "Workbook"}}
            }
        },
        "/subjects": {"get": {"tags": ["Reference"], "summary": "List subjects", "responses": {"200": {"description": "OK"}}}},
        "/chapters": {
            "get": {
                "tags": ["Reference"],
                "summary": "List chapters",
                "parameters": [{"name": "subjectId", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/topics": {
            "get": {
                "tags": ["Reference"],
                "summary": "List topics",
                "parameters": [{"name": "chapterId", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/question-types": {"get": {"tags": ["Reference"], "summary": "List question types", "responses": {"200": {"description": "OK"}}}},
        "/difficulty-levels": {"get": {"tags": ["Reference"], "summary": "List difficulty levels", "responses": {"200": {"description": "OK"}}}},
        "/papers": {
            "get": {
                "tags": ["Papers"],
                "summary": "List a user's papers",
                "parameters": [{"name": "userId", "in": "query", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "User ID is required"}}
            },
            "post": {
                "tags": ["Papers"],
                "summary": "Create paper",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePaperRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Paper"}},
                    "400": {"description": "Missing required fields", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/papers/generate": {
            "post": {
                "tags": ["Papers"],
                "summary": "Generate a paper from random matching questions",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad request"}}
            }
        },
        "/papers/{id}": {
            "get": {
                "tags": ["Papers"],
                "summary": "Get paper with questions",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Paper not found"}}
            }
        },
        "/papers/{id}/attempts": {
            "post": {
                "tags": ["Attempts"],
                "summary": "Submit a mock test",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"201": {"description": "Scored"}, "404": {"description": "Paper not found"}}
            }
        },
        "/attempts": {
            "get": {
                "tags": ["Attempts"],
                "summary": "List a user's attempts",
                "parameters": [{"name": "userId", "in": "query", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/papers/{id}/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a paper export",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"202": {"description": "Queued", "schema": {"$ref": "#/definitions/PaperExport"}}, "400": {"description": "Unsupported export format"}}
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export status",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/PaperExport"}}, "404": {"description": "Export not found"}}
            }
        },
        "/downloads/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export",
                "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "File"}, "403": {"description": "Invalid or expired download link"}}
            }
        },
        "/users": {"post": {"tags": ["Users"], "summary": "Register user", "responses": {"201": {"description": "Created"}, "409": {"description": "Username already exists"}}}},
        "/users/login": {"post": {"tags": ["Users"], "summary": "Check credentials", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid username or password"}}}},
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "User not found"}}
            }
        }
    },
    "definitions": {
        "Question": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "content": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "correctAnswer": {"type": "string"},
                "hasDiagram": {"type": "boolean"},
                "diagramSvg": {"type": "string"},
                "subjectId": {"type": "integer"},
                "chapterId": {"type": "integer"},
                "topicId": {"type": "integer"},
                "difficultyLevelId": {"type": "integer"},
                "questionTypeId": {"type": "integer"}
            }
        },
        "QuestionPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/Question"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "ImportResult": {
            "type": "object",
            "properties": {
                "imported": {"type": "integer"},
                "ids": {"type": "array", "items": {"type": "integer"}},
                "errors": {"type": "array", "items": {"type": "object", "properties": {"row": {"type": "integer"}, "error": {"type": "string"}}}}
            }
        },
        "CreatePaperRequest": {
            "type": "object",
            "required": ["title", "userId", "questionIds"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "userId": {"type": "integer"},
                "questionIds": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "Paper": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "userId": {"type": "integer"},
                "createdAt": {"type": "string"}
            }
        },
        "PaperExport": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "paperId": {"type": "integer"},
                "format": {"type": "string", "enum": ["pdf", "csv", "xlsx"]},
                "status": {"type": "string", "enum": ["QUEUED", "PROCESSING", "FINISHED", "FAILED"]},
                "resultUrl": {"type": "string"},
                "error": {"type": "string"},
                "createdAt": {"type": "string"},
                "finishedAt": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "error": {"type": "string"}
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
