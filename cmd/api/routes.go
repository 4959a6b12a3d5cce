package main

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/movies", app.listMoviesHandler)
	router.HandlerFunc(http.MethodPost, "/movies", app.createMovieHandler)
	router.HandlerFunc(http.MethodGet, "/movies/:id", app.showMovieHandler)
	router.HandlerFunc(http.MethodPatch, "/movies/:id", app.updateMovieHandler)
	router.HandlerFunc(http.MethodPut, "/movies/:id", app.replaceMovieHandler)
	router.HandlerFunc(http.MethodDelete, "/movies/:id", app.deleteMovieHandler)

	router.HandlerFunc(http.MethodGet, "/texts", app.listTextsHandler)
	router.HandlerFunc(http.MethodPost, "/texts", app.createTextHandler)
	router.HandlerFunc(http.MethodGet, "/texts/:id", app.showTextHandler)
	router.HandlerFunc(http.MethodPatch, "/texts/:id", app.updateTextHandler)
	router.HandlerFunc(http.MethodPut, "/texts/:id", app.replaceTextHandler)
	router.HandlerFunc(http.MethodDelete, "/texts/:id", app.deleteTextHandler)

	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())

	return app.metrics(app.requestID(app.recoverPanic(app.enableCORS(app.rateLimiter(router)))))
}
