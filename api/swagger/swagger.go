package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tempo API",
        "description": "Weekly time sheet tracking and approval service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session management"},
        {"name": "TimeSheets", "description": "Weekly sheet lifecycle"},
        {"name": "TimeEntries", "description": "Single hour cells"},
        {"name": "Approvals", "description": "Submission and supervisor review"},
        {"name": "Supervisors", "description": "Supervisor relations"},
        {"name": "Catalog", "description": "Missions, tasks and internal activities"},
        {"name": "Exports", "description": "Week downloads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-sheets/current": {
            "get": {
                "tags": ["TimeSheets"],
                "summary": "Get a week sheet",
                "parameters": [
                    {"name": "week", "in": "query", "type": "string", "description": "Anchor date (YYYY-MM-DD)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["TimeSheets"],
                "summary": "Save a week",
                "parameters": [
                    {"name": "week", "in": "query", "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveWeekRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["TimeSheets"],
                "summary": "Clear a week",
                "parameters": [
                    {"name": "week", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-sheets/current/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a week",
                "parameters": [
                    {"name": "week", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/time-sheets": {
            "get": {
                "tags": ["TimeSheets"],
                "summary": "List own sheets",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-sheets/{id}": {
            "get": {
                "tags": ["TimeSheets"],
                "summary": "Get a sheet by ID",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["TimeSheets"],
                "summary": "Delete a sheet",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/time-sheets/{id}/status": {
            "get": {
                "tags": ["Approvals"],
                "summary": "Sheet status with history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["TimeSheets"],
                "summary": "Update sheet status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Precondition Failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-sheets/{id}/submit": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Submit a sheet for review",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Precondition Failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-sheets/{id}/approve": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Approve a submitted sheet",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-sheets/{id}/reject": {
            "post": {
                "tags": ["Approvals"],
                "summary": "Reject a submitted sheet",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Precondition Failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-sheets/{id}/approvals": {
            "get": {
                "tags": ["Approvals"],
                "summary": "Approval history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-entries": {
            "get": {
                "tags": ["TimeEntries"],
                "summary": "List time entries",
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "week_start", "in": "query", "required": true, "type": "string"},
                    {"name": "week_end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["TimeEntries"],
                "summary": "Create a time entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEntryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-entries/{id}": {
            "put": {
                "tags": ["TimeEntries"],
                "summary": "Update entry hours",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEntryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["TimeEntries"],
                "summary": "Delete a time entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/approvals/pending": {
            "get": {
                "tags": ["Approvals"],
                "summary": "Pending review queue",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/approvals/all": {
            "get": {
                "tags": ["Approvals"],
                "summary": "Full review queue",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/approvals/submitted": {
            "get": {
                "tags": ["Approvals"],
                "summary": "All submitted sheets (admin)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/supervisors": {
            "post": {
                "tags": ["Supervisors"],
                "summary": "Create a supervisor relation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRelationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/supervisors/{collaboratorId}/{supervisorId}": {
            "delete": {
                "tags": ["Supervisors"],
                "summary": "Delete a supervisor relation",
                "parameters": [
                    {"name": "collaboratorId", "in": "path", "required": true, "type": "string"},
                    {"name": "supervisorId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/supervisors/collaborator/{collaboratorId}": {
            "get": {
                "tags": ["Supervisors"],
                "summary": "List supervisors of a collaborator",
                "parameters": [
                    {"name": "collaboratorId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/supervisors/collaborators": {
            "get": {
                "tags": ["Supervisors"],
                "summary": "List own collaborators",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/supervisors/check/{collaboratorId}": {
            "get": {
                "tags": ["Supervisors"],
                "summary": "Check a supervisor relation",
                "parameters": [
                    {"name": "collaboratorId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/supervisors/all": {
            "get": {
                "tags": ["Supervisors"],
                "summary": "List all supervisors (admin)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/missions": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List missions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/internal-activities": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List internal activities",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "UpdateStatusRequest": {
            "type": "object",
            "properties": {
                "statut": {"type": "string", "enum": ["draft", "saved", "submitted"]}
            },
            "required": ["statut"]
        },
        "RowPayload": {
            "type": "object",
            "properties": {
                "type_heures": {"type": "string", "enum": ["HC", "HNC"]},
                "mission_id": {"type": "string"},
                "task_id": {"type": "string"},
                "internal_activity_id": {"type": "string"},
                "days": {
                    "type": "array",
                    "items": {"type": "number"},
                    "minItems": 7,
                    "maxItems": 7
                }
            },
            "required": ["type_heures", "days"]
        },
        "SaveWeekRequest": {
            "type": "object",
            "properties": {
                "rows": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/RowPayload"}
                }
            }
        },
        "CreateEntryRequest": {
            "type": "object",
            "properties": {
                "time_sheet_id": {"type": "string"},
                "date_saisie": {"type": "string"},
                "heures": {"type": "number", "minimum": 0, "exclusiveMinimum": true, "maximum": 24},
                "type_heures": {"type": "string", "enum": ["HC", "HNC"]},
                "mission_id": {"type": "string"},
                "task_id": {"type": "string"},
                "internal_activity_id": {"type": "string"}
            },
            "required": ["time_sheet_id", "date_saisie", "heures", "type_heures"]
        },
        "UpdateEntryRequest": {
            "type": "object",
            "properties": {
                "heures": {"type": "number"}
            },
            "required": ["heures"]
        },
        "DecisionRequest": {
            "type": "object",
            "properties": {
                "comment": {"type": "string"}
            }
        },
        "CreateRelationRequest": {
            "type": "object",
            "properties": {
                "collaborateur_id": {"type": "string"},
                "supervisor_id": {"type": "string"}
            },
            "required": ["collaborateur_id", "supervisor_id"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
