package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           ct2d API
// @version         1.0
// @description     HTTP API for serving converted CTranslate2 models.
//
// @contact.name   ct2go maintainers
// @contact.url    https://github.com/your-org/ct2go
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
