// Package docs is generated by swaggo/swag from the handler annotations.
//
//	swag init -g docs/swagger_navigator.go --instanceName navigator -o docs --outputTypes go
package docs

import "github.com/swaggo/swag"

const docTemplatenavigator = `{
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
        "/health": {
            "get": {
                "description": "Returns the health status of the service. A failed or closed session reports 503.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/session": {
            "get": {
                "description": "Returns the lifecycle state of the navigation session",
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Session status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}}
                }
            }
        },
        "/session/connect": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Opens a new connection to the navigation service, replacing the current one, and registers the user",
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Connect",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/session/register": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Re-sends the registration of the current user followed by the current location",
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Register user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/session/location": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Stores the location sample and pushes it to the navigation service. A sample that cannot be sent yet is kept and sent after the next registration.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Update location",
                "parameters": [
                    {"description": "Location sample", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LocationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": true}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/session/token": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Replaces the access token whose user_id claim identifies the user. Takes effect on the next registration.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Session"],
                "summary": "Set access token",
                "parameters": [
                    {"description": "Access token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SetTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/trips": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Requests a route to the place. The route arrives asynchronously and is served by GET /route.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "Start trip",
                "parameters": [
                    {"description": "Destination and priority; origin defaults to the stored location", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.StartTripRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/dto.TripResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/trips/end": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Sends endTrip whether or not a trip is active",
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "End trip",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TripResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/route": {
            "get": {
                "description": "Returns the last route pushed by the navigation service, verbatim",
                "produces": ["application/json"],
                "tags": ["Trips"],
                "summary": "Active route",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.RouteUpdate"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "dto.LocationRequest": {
            "type": "object",
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "dto.PlaceRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "center": {"type": "array", "items": {"type": "number"}, "description": "[longitude, latitude]"}
            }
        },
        "dto.StartTripRequest": {
            "type": "object",
            "properties": {
                "place": {"$ref": "#/definitions/dto.PlaceRequest"},
                "priority": {"type": "integer"},
                "origin": {"$ref": "#/definitions/dto.LocationRequest"}
            }
        },
        "dto.SetTokenRequest": {
            "type": "object",
            "properties": {"access_token": {"type": "string"}}
        },
        "dto.TripResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "trip_id": {"type": "string"},
                "destination": {"type": "string"}
            }
        },
        "dto.SessionResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["DISCONNECTED", "CONNECTING", "CONNECTED_UNREGISTERED", "REGISTERED", "FAILED", "CLOSED"]},
                "session_id": {"type": "integer"},
                "user_id": {"type": "string"},
                "connected": {"type": "boolean"},
                "attempts": {"type": "integer"},
                "loading": {"type": "boolean"},
                "last_error": {"type": "string"},
                "pending_trip": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "string"},
                        "priority": {"type": "integer"},
                        "started_at": {"type": "string"}
                    }
                }
            }
        },
        "models.RouteUpdate": {
            "type": "object",
            "properties": {
                "route": {"type": "object", "description": "tripPath payload, forwarded verbatim"},
                "user_id": {"type": "string"},
                "trip_id": {"type": "string"},
                "received_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token. Required only when AUTH_JWT_SECRET is set.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfonavigator holds exported Swagger Info so clients can modify it
var SwaggerInfonavigator = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3010",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Navigator API",
	Description:      "Control API of the navigation session agent: opens and registers the session, pushes location samples, starts and ends trips and serves the route pushed by the navigation service.",
	InfoInstanceName: "navigator",
	SwaggerTemplate:  docTemplatenavigator,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfonavigator.InstanceName(), SwaggerInfonavigator)
}
