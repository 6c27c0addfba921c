// Package docs registra a documentação OpenAPI servida em /swagger/.
// Gerado a partir das anotações dos handlers (swag init -g cmd/main.go).
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
        "/products": {
            "get": {
                "tags": [
                    "products"
                ],
                "summary": "Lista o catálogo público",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.Product"
                            }
                        }
                    },
                    "400": {
                        "description": "Parâmetro inválido",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "query",
                        "name": "category_id",
                        "description": "Filtra pela categoria"
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "post": {
                "tags": [
                    "products"
                ],
                "summary": "Cria um produto",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.Product"
                        }
                    },
                    "400": {
                        "description": "Dados inválidos",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Não autenticado",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Sem permissão",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "product",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/domain.Product"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/products/{id}": {
            "get": {
                "tags": [
                    "products"
                ],
                "summary": "Busca um produto pelo ID",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Product"
                        }
                    },
                    "404": {
                        "description": "Não encontrado",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "path",
                        "name": "id",
                        "required": true
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "put": {
                "tags": [
                    "products"
                ],
                "summary": "Substitui um produto",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Product"
                        }
                    },
                    "404": {
                        "description": "Não encontrado",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Versão desatualizada",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "path",
                        "name": "id",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "product",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/domain.Product"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "products"
                ],
                "summary": "Remove um produto",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Não encontrado",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "path",
                        "name": "id",
                        "required": true
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/products": {
            "get": {
                "tags": [
                    "products"
                ],
                "summary": "Lista todos os produtos (inclui inativos)",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.Product"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "query",
                        "name": "category_id",
                        "description": "Filtra pela categoria"
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/categories": {
            "get": {
                "tags": [
                    "categories"
                ],
                "summary": "Lista as categorias",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.Category"
                            }
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "categories"
                ],
                "summary": "Cria uma categoria",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.Category"
                        }
                    },
                    "400": {
                        "description": "Dados inválidos",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Slug já existe",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "category",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/category.CategoryRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/categories/{id}": {
            "get": {
                "tags": [
                    "categories"
                ],
                "summary": "Busca uma categoria pelo ID",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Category"
                        }
                    },
                    "404": {
                        "description": "Não encontrada",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "path",
                        "name": "id",
                        "required": true
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "put": {
                "tags": [
                    "categories"
                ],
                "summary": "Atualiza uma categoria",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Category"
                        }
                    },
                    "404": {
                        "description": "Não encontrada",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "path",
                        "name": "id",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "category",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/category.CategoryRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "categories"
                ],
                "summary": "Remove uma categoria",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Não encontrada",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "path",
                        "name": "id",
                        "required": true
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/coupons/validate": {
            "post": {
                "tags": [
                    "coupons"
                ],
                "summary": "Valida um cupom sobre o subtotal do carrinho",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.CouponValidation"
                        }
                    },
                    "400": {
                        "description": "Dados inválidos",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/coupon.ValidateRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/coupons": {
            "get": {
                "tags": [
                    "coupons"
                ],
                "summary": "Lista os cupons",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.Coupon"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "coupons"
                ],
                "summary": "Cria um cupom",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.Coupon"
                        }
                    },
                    "400": {
                        "description": "Dados inválidos",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Código já existe",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "coupon",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/domain.Coupon"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/coupons/{code}": {
            "delete": {
                "tags": [
                    "coupons"
                ],
                "summary": "Remove um cupom",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Não encontrado",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "in": "path",
                        "name": "code",
                        "required": true
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/orders": {
            "post": {
                "tags": [
                    "orders"
                ],
                "summary": "Registra um pedido",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.OrderResponse"
                        }
                    },
                    "400": {
                        "description": "Dados inválidos",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Erro interno",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "order",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/domain.OrderRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/sales": {
            "get": {
                "tags": [
                    "orders"
                ],
                "summary": "Histórico de vendas",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.Sale"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "query",
                        "name": "limit",
                        "description": "Máximo de registros"
                    },
                    {
                        "type": "integer",
                        "in": "query",
                        "name": "offset",
                        "description": "Deslocamento"
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stock/adjust": {
            "post": {
                "tags": [
                    "stock"
                ],
                "summary": "Dá baixa manual no estoque",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.AdjustmentResult"
                        }
                    },
                    "409": {
                        "description": "Conflito de versão",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Erro interno",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "adjustment",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/stock.AdjustRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/stock/adjustments": {
            "get": {
                "tags": [
                    "stock"
                ],
                "summary": "Lista a trilha de auditoria do estoque",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.StockAdjustmentRecord"
                            }
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "in": "query",
                        "name": "product_id",
                        "description": "Filtra por produto"
                    },
                    {
                        "type": "integer",
                        "in": "query",
                        "name": "limit",
                        "description": "Máximo de registros"
                    },
                    {
                        "type": "integer",
                        "in": "query",
                        "name": "offset",
                        "description": "Deslocamento"
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/register": {
            "post": {
                "tags": [
                    "admin"
                ],
                "summary": "Registra um novo administrador",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.User"
                        }
                    },
                    "400": {
                        "description": "Dados inválidos",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Token de administrador necessário",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Email já cadastrado",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "registration",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/domain.UserRegistration"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/admin/login": {
            "post": {
                "tags": [
                    "admin"
                ],
                "summary": "Autentica um administrador e retorna um JWT",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.LoginResponse"
                        }
                    },
                    "401": {
                        "description": "Credenciais inválidas",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "login",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/user.LoginRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/push/subscriptions": {
            "post": {
                "tags": [
                    "push"
                ],
                "summary": "Inscreve o navegador nas notificações",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.PushSubscription"
                        }
                    },
                    "400": {
                        "description": "Dados inválidos",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "subscription",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/domain.PushSubscription"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "delete": {
                "tags": [
                    "push"
                ],
                "summary": "Cancela a inscrição do navegador",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Não encontrada",
                        "schema": {
                            "$ref": "#/definitions/domain.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "required": true,
                        "description": "",
                        "schema": {
                            "$ref": "#/definitions/push.UnsubscribeRequest"
                        }
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "get": {
                "tags": [
                    "push"
                ],
                "summary": "Lista as inscrições",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/domain.PushSubscription"
                            }
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "integer",
                    "example": 400
                },
                "category": {
                    "type": "string",
                    "example": "VALIDATION_ERROR"
                },
                "message": {
                    "type": "string",
                    "example": "O título do produto é obrigatório."
                }
            }
        },
        "domain.Variant": {
            "type": "object",
            "properties": {
                "index": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "quantity": {
                    "type": "integer"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "domain.Product": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "category_id": {
                    "type": "integer"
                },
                "price": {
                    "type": "string",
                    "example": "12.50"
                },
                "description": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "active",
                        "inactive"
                    ]
                },
                "display_order": {
                    "type": "integer"
                },
                "sabores": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Variant"
                    }
                },
                "version": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "domain.Category": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "slug": {
                    "type": "string"
                },
                "display_order": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "category.CategoryRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "display_order": {
                    "type": "integer"
                }
            }
        },
        "domain.Coupon": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "discount_percent": {
                    "type": "string",
                    "example": "12.50"
                },
                "active": {
                    "type": "boolean"
                },
                "expires_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "max_uses": {
                    "type": "integer"
                },
                "uses": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "coupon.ValidateRequest": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "subtotal": {
                    "type": "string",
                    "example": "12.50"
                }
            }
        },
        "domain.CouponValidation": {
            "type": "object",
            "properties": {
                "valid": {
                    "type": "boolean"
                },
                "code": {
                    "type": "string"
                },
                "discount": {
                    "type": "string",
                    "example": "12.50"
                },
                "total": {
                    "type": "string",
                    "example": "12.50"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "domain.SaleItem": {
            "type": "object",
            "properties": {
                "product_id": {
                    "type": "integer"
                },
                "variant_index": {
                    "type": "integer"
                },
                "quantity": {
                    "type": "integer"
                },
                "unit_price": {
                    "type": "string",
                    "example": "12.50"
                },
                "product_title": {
                    "type": "string"
                },
                "variant_name": {
                    "type": "string"
                }
            }
        },
        "domain.Sale": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "customer_name": {
                    "type": "string"
                },
                "customer_phone": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.SaleItem"
                    }
                },
                "coupon_code": {
                    "type": "string"
                },
                "subtotal": {
                    "type": "string",
                    "example": "12.50"
                },
                "discount": {
                    "type": "string",
                    "example": "12.50"
                },
                "total": {
                    "type": "string",
                    "example": "12.50"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "domain.OrderRequest": {
            "type": "object",
            "properties": {
                "customer_name": {
                    "type": "string"
                },
                "customer_phone": {
                    "type": "string"
                },
                "coupon_code": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.SaleItem"
                    }
                }
            }
        },
        "domain.OrderLine": {
            "type": "object",
            "properties": {
                "product_id": {
                    "type": "integer"
                },
                "variant_index": {
                    "type": "integer"
                },
                "quantity": {
                    "type": "integer"
                }
            }
        },
        "stock.AdjustRequest": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.OrderLine"
                    }
                }
            }
        },
        "domain.StockAdjustmentRecord": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "product_id": {
                    "type": "integer"
                },
                "variant_index": {
                    "type": "integer"
                },
                "variant_name": {
                    "type": "string"
                },
                "product_title": {
                    "type": "string"
                },
                "quantity_before": {
                    "type": "integer"
                },
                "quantity_after": {
                    "type": "integer"
                },
                "quantity_ordered": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "domain.AdjustmentResult": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "nothing_to_do",
                        "no_matching_products",
                        "no_updates_necessary",
                        "updated"
                    ]
                },
                "message": {
                    "type": "string"
                },
                "updates_applied": {
                    "type": "integer"
                },
                "products_written": {
                    "type": "integer"
                },
                "updates": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.StockAdjustmentRecord"
                    }
                },
                "audit_error": {
                    "type": "string"
                }
            }
        },
        "domain.OrderResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "sale": {
                    "$ref": "#/definitions/domain.Sale"
                },
                "stock": {
                    "$ref": "#/definitions/domain.AdjustmentResult"
                },
                "stock_review_required": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "domain.UserRegistration": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "user.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "domain.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string"
                }
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "domain.PushKeys": {
            "type": "object",
            "properties": {
                "p256dh": {
                    "type": "string"
                },
                "auth": {
                    "type": "string"
                }
            }
        },
        "domain.PushSubscription": {
            "type": "object",
            "properties": {
                "endpoint": {
                    "type": "string"
                },
                "keys": {
                    "$ref": "#/definitions/domain.PushKeys"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "push.UnsubscribeRequest": {
            "type": "object",
            "properties": {
                "endpoint": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo guarda as informações exportadas da especificação Swagger.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "SaborStock API",
	Description:      "Catálogo, pedidos e estoque de sabores da doceria.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
