package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           ct2d API
// @version         1.0
// @description     HTTP API for CTranslate2 batch translation, generation, transcription and scoring.
//
// @contact.name   ct2d maintainers
// @contact.url    https://github.com/your-org/ct2d
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
