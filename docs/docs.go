// Package docs registers the OpenAPI description of the API with swag.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/auth/google": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in with Google",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.GoogleLoginRequest"}}],
                "responses": {
                    "200": {"description": "User authenticated successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Token required", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Invalid or expired Google token", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Refresh access token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}],
                "responses": {
                    "200": {"description": "Token refreshed successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Invalid, expired or revoked refresh token", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}],
                "responses": {
                    "200": {"description": "Logged out successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/auth/logout-all": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Log out everywhere",
                "description": "Revokes all refresh tokens of the authenticated user. Access tokens stay valid until they expire.",
                "responses": {
                    "200": {"description": "All sessions revoked", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "401": {"description": "Unauthorized - Invalid or missing token", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/forecast": {
            "post": {
                "tags": ["forecast"],
                "summary": "Forecast GPA",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ForecastRequest"}}],
                "responses": {
                    "200": {"description": "Forecast calculated successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Missing field, out of range value, empty course list, invalid credit unit or invalid grade", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/forecast/grades": {
            "get": {
                "tags": ["forecast"],
                "summary": "Get grade scale",
                "responses": {"200": {"description": "Grade scale retrieved successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Get current user profile",
                "responses": {"200": {"description": "Profile retrieved successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update current user profile",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateProfileRequest"}}],
                "responses": {"200": {"description": "Profile updated successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/users/me/context": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Get academic context",
                "responses": {"200": {"description": "Academic context retrieved successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/results": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["results"],
                "summary": "List results",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "name": "size", "in": "query"}
                ],
                "responses": {"200": {"description": "Results retrieved successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["results"],
                "summary": "Record a semester result",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateResultRequest"}}],
                "responses": {
                    "201": {"description": "Result recorded successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Invalid request format, credit unit or grade", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/results/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["results"],
                "summary": "Get academic summary",
                "responses": {"200": {"description": "Summary retrieved successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/results/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["results"],
                "summary": "Export results",
                "responses": {"200": {"description": "Results workbook", "schema": {"type": "file"}}}
            }
        },
        "/results/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["results"],
                "summary": "Get a result",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Result retrieved successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Result not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["results"],
                "summary": "Delete a result",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Result deleted successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Result not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/advisor": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["advisor"],
                "summary": "Ask the academic advisor",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.AdvisorRequest"}}],
                "responses": {
                    "200": {"description": "Answer generated successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "503": {"description": "Advisor unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/newsletter/subscribe": {
            "post": {
                "tags": ["newsletter"],
                "summary": "Subscribe to newsletter",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.SubscribeRequest"}}],
                "responses": {
                    "201": {"description": "Successfully subscribed to newsletter", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Email is required or invalid", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Email is already subscribed to newsletter", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/newsletter/unsubscribe": {
            "post": {
                "tags": ["newsletter"],
                "summary": "Unsubscribe from newsletter",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UnsubscribeRequest"}}],
                "responses": {
                    "200": {"description": "Successfully unsubscribed from newsletter", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Email not found or already unsubscribed", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/newsletter/subscribers": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["newsletter"],
                "summary": "List subscribers (admin)",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 50, "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "Subscribers retrieved successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        },
        "/newsletter/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["newsletter"],
                "summary": "Subscription statistics (admin)",
                "responses": {"200": {"description": "Statistics retrieved successfully", "schema": {"$ref": "#/definitions/dto.APIResponse"}}}
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string"},
                "data": {},
                "timestamp": {"type": "string"}
            }
        },
        "dto.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "GPA_002"},
                "message": {"type": "string", "example": "Invalid current GPA"},
                "field": {"type": "string", "example": "current_gpa"},
                "severity": {"type": "string", "example": "ERROR"},
                "details": {}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "message": {"type": "string"},
                "error": {"$ref": "#/definitions/dto.ErrorDetail"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.GoogleLoginRequest": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "dto.RefreshTokenRequest": {
            "type": "object",
            "required": ["refreshToken"],
            "properties": {"refreshToken": {"type": "string"}}
        },
        "dto.PlannedCourseRequest": {
            "type": "object",
            "properties": {
                "credit_unit": {"type": "number", "example": 3},
                "expected_grade": {"type": "string", "example": "A"}
            }
        },
        "dto.ForecastRequest": {
            "type": "object",
            "properties": {
                "current_gpa": {"type": "number", "example": 3.5},
                "total_credit_units": {"type": "number", "example": 72},
                "planned_courses": {"type": "array", "items": {"$ref": "#/definitions/dto.PlannedCourseRequest"}}
            }
        },
        "dto.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "school_name": {"type": "string"},
                "department": {"type": "string"},
                "program": {"type": "string"},
                "matric_number": {"type": "string"}
            }
        },
        "dto.CourseResultRequest": {
            "type": "object",
            "required": ["course_code", "course_title", "credit_unit", "grade"],
            "properties": {
                "course_code": {"type": "string", "example": "CSC301"},
                "course_title": {"type": "string", "example": "Data Structures"},
                "credit_unit": {"type": "number", "example": 3},
                "grade": {"type": "string", "example": "A"}
            }
        },
        "dto.CreateResultRequest": {
            "type": "object",
            "required": ["semester", "academic_session", "courses"],
            "properties": {
                "semester": {"type": "string", "example": "First"},
                "academic_session": {"type": "string", "example": "2023/2024"},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/dto.CourseResultRequest"}}
            }
        },
        "dto.AdvisorRequest": {
            "type": "object",
            "required": ["question"],
            "properties": {"question": {"type": "string", "maxLength": 2000}}
        },
        "dto.SubscribeRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string", "example": "ada@example.com"},
                "source": {"type": "string", "maxLength": 50, "example": "landing_page"}
            }
        },
        "dto.UnsubscribeRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {"email": {"type": "string", "example": "ada@example.com"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "GPAi API",
	Description:      "GPA tracking and forecasting backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
