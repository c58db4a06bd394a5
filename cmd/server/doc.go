// Vocatio - Hybrid Job Recommendation and Reranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vocatio

// Package main is the entry point for the Vocatio server.
//
// Vocatio is a self-hosted hybrid job recommendation engine. It combines
// content-based scoring over resume and job embeddings with item-based
// collaborative filtering over recorded interactions, merges both signals
// with configurable strategies, and optionally reranks for diversity and
// novelty.
//
// @title Vocatio API
// @version 1.0
// @description Hybrid job recommendation and reranking engine.
// @description
// @description ## Authentication
// @description
// @description Endpoints under /api/v1 require a JWT bearer token (or basic auth,
// @description depending on AUTH_MODE). Obtain a token via /api/v1/auth/login.
// @description
// @description ## Error Responses
// @description
// @description All error responses use the envelope
// @description `{"status":"error","error":{"code":"...","message":"..."},"metadata":{...}}`.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/vocatio/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token. Obtain via /api/v1/auth/login.
//
// @tag.name Recommendations
// @tag.description Hybrid recommendation, diversity analysis, similarity, and engine statistics
//
// @tag.name Jobs
// @tag.description Job catalog ingestion, lookup, and full-text search
//
// @tag.name Interactions
// @tag.description Implicit feedback ingestion feeding the collaborative model
//
// @tag.name Resumes
// @tag.description Resume embedding ingestion
//
// @tag.name Auth
// @tag.description Authentication endpoints
//
// @tag.name Admin
// @tag.description Administrative operations (model rebuilds)
//
// @tag.name Realtime
// @tag.description Websocket activity feed
//
// @tag.name Health
// @tag.description Liveness and dependency checks
package main
