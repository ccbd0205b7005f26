// Package docs регистрирует OpenAPI-описание API в swag. Описание обработчиков
// лежит в godoc-аннотациях пакета handlers.
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
        "/bracket/build": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Построить сетку события",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.BuildBracketInput"}}],
                "responses": {
                    "201": {"description": "Идентификаторы созданных матчей (matchIds)"},
                    "401": {"description": "Неавторизован"},
                    "404": {"description": "Событие не найдено"},
                    "422": {"description": "Ошибка валидации, пустой пул или неверное окно расписания"}
                }
            }
        },
        "/bracket/advance": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Перейти к следующему раунду",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.AdvanceRoundInput"}}],
                "responses": {
                    "200": {"description": "ok"},
                    "409": {"description": "Раунд не завершён или уже продвинут"},
                    "500": {"description": "Сетка повреждена"}
                }
            }
        },
        "/match/result": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["match"],
                "summary": "Записать победителя матча",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.RecordResultInput"}}],
                "responses": {
                    "200": {"description": "ok и обновлённый матч"},
                    "400": {"description": "Победитель не участвует в матче"},
                    "409": {"description": "Матч не готов или раунд уже закрыт"}
                }
            }
        },
        "/match/reschedule": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["match"],
                "summary": "Перенести матч в конец раунда",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.RescheduleInput"}}],
                "responses": {
                    "200": {"description": "Матч с новым временем"},
                    "409": {"description": "В раунде нет расписания"}
                }
            }
        },
        "/match/score": {
            "get": {
                "produces": ["application/json"],
                "tags": ["match"],
                "summary": "Очки матча",
                "parameters": [
                    {"type": "integer", "name": "eventId", "in": "query", "required": true},
                    {"type": "string", "name": "matchKey", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Матч не найден"}}
            }
        },
        "/bracket/{eventID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Получить матчи сетки",
                "parameters": [
                    {"type": "integer", "name": "eventID", "in": "path", "required": true},
                    {"type": "integer", "name": "round", "in": "query"},
                    {"type": "string", "name": "date", "in": "query"},
                    {"type": "number", "name": "timeOffset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Match"}}}}
            }
        },
        "/bracket/{eventID}/rounds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Число раундов сетки",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "numRounds"}}
            }
        },
        "/bracket/{eventID}/dates": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Количество матчей по дням",
                "parameters": [
                    {"type": "integer", "name": "eventID", "in": "path", "required": true},
                    {"type": "integer", "name": "round", "in": "query"},
                    {"type": "number", "name": "timeOffset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/bracket/{eventID}/panels": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Матчи раунда по судейским панелям",
                "parameters": [
                    {"type": "integer", "name": "eventID", "in": "path", "required": true},
                    {"type": "integer", "name": "round", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/bracket/{eventID}/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Очки всех матчей раунда",
                "parameters": [
                    {"type": "integer", "name": "eventID", "in": "path", "required": true},
                    {"type": "integer", "name": "round", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/bracket/{eventID}/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["bracket"],
                "summary": "Выгрузить сетку в Excel",
                "parameters": [
                    {"type": "integer", "name": "eventID", "in": "path", "required": true},
                    {"type": "integer", "name": "round", "in": "query"},
                    {"type": "number", "name": "timeOffset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/bracket/{eventID}/progress": {
            "get": {
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Флаги продвижения сетки",
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bracket"],
                "summary": "Обновить флаги продвижения сетки",
                "parameters": [
                    {"type": "integer", "name": "eventID", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.UpdateProgressInput"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "services.BreakTime": {
            "type": "object",
            "properties": {
                "start": {"type": "array", "items": {"type": "string"}},
                "end": {"type": "array", "items": {"type": "string"}}
            }
        },
        "services.BuildBracketInput": {
            "type": "object",
            "properties": {
                "eventId": {"type": "integer"},
                "subject": {"type": "string"},
                "roundStart": {"type": "string", "example": "2024-05-01"},
                "dayStart": {"type": "string", "example": "09:00"},
                "dayEnd": {"type": "string", "example": "18:00"},
                "interval": {"type": "integer", "description": "seconds"},
                "breakTime": {"$ref": "#/definitions/services.BreakTime"},
                "judgeTeamNum": {"type": "integer"},
                "timeOffset": {"type": "number", "description": "hours"}
            }
        },
        "services.AdvanceRoundInput": {
            "type": "object",
            "properties": {
                "eventId": {"type": "integer"},
                "completedRound": {"type": "integer"},
                "subject": {"type": "string"},
                "roundStart": {"type": "string"},
                "dayStart": {"type": "string"},
                "dayEnd": {"type": "string"},
                "interval": {"type": "integer"},
                "breakTime": {"$ref": "#/definitions/services.BreakTime"},
                "judgeTeamNum": {"type": "integer"},
                "timeOffset": {"type": "number"}
            }
        },
        "services.RecordResultInput": {
            "type": "object",
            "properties": {
                "eventId": {"type": "integer"},
                "matchKey": {"type": "string", "example": "1-1"},
                "winnerId": {"type": "integer"}
            }
        },
        "services.RescheduleInput": {
            "type": "object",
            "properties": {
                "eventId": {"type": "integer"},
                "matchKey": {"type": "string"}
            }
        },
        "services.UpdateProgressInput": {
            "type": "object",
            "properties": {
                "bracketCreated": {"type": "boolean"},
                "bracketFinalized": {"type": "boolean"},
                "finishedRound": {"type": "integer"}
            }
        },
        "models.Slot": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["empty", "bye", "resolved"]},
                "entrant_id": {"type": "integer"}
            }
        },
        "models.Match": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "event_id": {"type": "integer"},
                "round": {"type": "integer"},
                "index": {"type": "integer"},
                "match_key": {"type": "string"},
                "subject": {"type": "string"},
                "side_a": {"$ref": "#/definitions/models.Slot"},
                "side_b": {"$ref": "#/definitions/models.Slot"},
                "judge_panel": {"type": "array", "items": {"type": "integer"}},
                "schedule": {"type": "string", "format": "date-time"},
                "winner_id": {"type": "integer"},
                "roster_a": {"type": "array", "items": {"type": "string"}},
                "roster_b": {"type": "array", "items": {"type": "string"}},
                "stream_key": {"type": "string"},
                "is_placement": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Debate Tournament API",
	Description:      "Сетки дебатных турниров: построение, расписание, переход раундов и подсчёт очков.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
