// Package docs registers the OpenAPI description served by the swagger UI.
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
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Operator login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/services.LoginInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/tournaments": {
            "get": {"tags": ["tournaments"], "summary": "List tournaments", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tournaments"],
                "summary": "Create a tournament",
                "parameters": [{"in": "body", "name": "tournament", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {"tags": ["tournaments"], "summary": "Get a tournament", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/tournaments/{tournamentID}/teams": {
            "get": {"tags": ["teams"], "summary": "List the teams of a tournament", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Add a team", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"in": "body", "name": "team", "required": true, "schema": {"$ref": "#/definitions/services.AddTeamInput"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/tournaments/{tournamentID}/teams/{teamID}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Remove a team", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"in": "path", "name": "teamID", "type": "integer", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}
        },
        "/tournaments/{tournamentID}/games": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["games"], "summary": "Add a game", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"in": "body", "name": "game", "required": true, "schema": {"$ref": "#/definitions/services.AddGameInput"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/tournaments/{tournamentID}/games/{gameID}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["games"], "summary": "Remove a game", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"in": "path", "name": "gameID", "type": "integer", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}
        },
        "/tournaments/{tournamentID}/schedule": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["schedule"], "summary": "Build the round robin schedule", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"in": "body", "name": "options", "schema": {"$ref": "#/definitions/handlers.buildScheduleRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["schedule"], "summary": "Delete every round and matchup", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/tournaments/{tournamentID}/schedule/violations": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["schedule"], "summary": "Audit the schedule", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/rounds": {
            "get": {"tags": ["schedule"], "summary": "List rounds with their matchups", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/rounds/advance": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["schedule"], "summary": "Move the current round pointer forward", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/tournaments/{tournamentID}/rounds/retreat": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["schedule"], "summary": "Move the current round pointer back", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/tournaments/{tournamentID}/rounds/{roundNumber}/timing": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["schedule"], "summary": "Adjust round start times", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"in": "path", "name": "roundNumber", "type": "integer", "required": true}, {"in": "body", "name": "timing", "required": true, "schema": {"$ref": "#/definitions/handlers.adjustTimingRequest"}}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/standings": {
            "get": {"tags": ["standings"], "summary": "Current standings", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/standings/recompute": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["standings"], "summary": "Recompute standings from confirmed results", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/schedule.csv": {
            "get": {"tags": ["exports"], "summary": "Schedule grid as CSV", "produces": ["text/csv"], "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/standings.csv": {
            "get": {"tags": ["exports"], "summary": "Standings as CSV", "produces": ["text/csv"], "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/exports": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["exports"], "summary": "Upload CSV exports to object storage", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/matchups/{matchupID}": {
            "get": {"tags": ["matchups"], "summary": "Get a matchup", "parameters": [{"$ref": "#/parameters/matchupID"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/matchups/{matchupID}/report": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["matchups"], "summary": "Report a result for a side", "parameters": [{"$ref": "#/parameters/matchupID"}, {"in": "body", "name": "report", "required": true, "schema": {"$ref": "#/definitions/handlers.reportRequest"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/matchups/{matchupID}/resolve": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["matchups"], "summary": "Resolve a conflicted matchup", "parameters": [{"$ref": "#/parameters/matchupID"}, {"in": "body", "name": "decision", "required": true, "schema": {"$ref": "#/definitions/handlers.resolveRequest"}}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/matchups/{matchupID}/reset": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["matchups"], "summary": "Clear reports and result of a matchup", "parameters": [{"$ref": "#/parameters/matchupID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/team": {
            "get": {"security": [{"TeamToken": []}], "tags": ["team"], "summary": "Get the calling team", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/team/matchups/{matchupID}/report": {
            "post": {"security": [{"TeamToken": []}], "tags": ["team"], "summary": "Report a result as a team", "parameters": [{"$ref": "#/parameters/matchupID"}, {"in": "body", "name": "report", "required": true, "schema": {"$ref": "#/definitions/handlers.teamReportRequest"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/team/wagers": {
            "get": {"security": [{"TeamToken": []}], "tags": ["team"], "summary": "List the calling team's wagers", "responses": {"200": {"description": "OK"}}}
        },
        "/team/wagers/{gameID}": {
            "put": {"security": [{"TeamToken": []}], "tags": ["team"], "summary": "Place or replace a wager", "parameters": [{"in": "path", "name": "gameID", "type": "integer", "required": true}, {"in": "body", "name": "wager", "required": true, "schema": {"$ref": "#/definitions/handlers.wagerRequest"}}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/ws/tournaments/{tournamentID}": {
            "get": {"tags": ["realtime"], "summary": "Tournament event stream", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"101": {"description": "Switching Protocols"}}}
        }
    },
    "parameters": {
        "tournamentID": {"in": "path", "name": "tournamentID", "type": "integer", "required": true},
        "matchupID": {"in": "path", "name": "matchupID", "type": "integer", "required": true}
    },
    "definitions": {
        "services.LoginInput": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "services.CreateTournamentInput": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}}},
        "services.AddTeamInput": {"type": "object", "properties": {"name": {"type": "string"}, "members": {"type": "string"}}},
        "services.AddGameInput": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}}},
        "handlers.buildScheduleRequest": {"type": "object", "properties": {"rebuild": {"type": "boolean"}, "start_time": {"type": "string", "format": "date-time"}, "round_length_minutes": {"type": "integer"}}},
        "handlers.adjustTimingRequest": {"type": "object", "properties": {"start_time": {"type": "string", "format": "date-time"}}},
        "handlers.reportRequest": {"type": "object", "properties": {"side": {"type": "string", "enum": ["team1", "team2"]}, "team_id": {"type": "integer"}, "winner_id": {"type": "integer"}}},
        "handlers.resolveRequest": {"type": "object", "properties": {"winner_id": {"type": "integer"}, "note": {"type": "string"}}},
        "handlers.teamReportRequest": {"type": "object", "properties": {"winner_id": {"type": "integer"}}},
        "handlers.wagerRequest": {"type": "object", "properties": {"points": {"type": "integer", "minimum": 0, "maximum": 100}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "TeamToken": {"type": "apiKey", "name": "X-Team-Token", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Backyard Olympics API",
	Description:      "Round robin scheduling, two-sided result reporting and standings for backyard tournaments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
