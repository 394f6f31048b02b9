// Package handlers holds the example routes served next to the static files.
package handlers

import (
	"log/slog"

	"github.com/freekieb7/rawhttp/http"
)

const MessageReceived = "Сообщение успешно получено сервером!"

// Register installs the example routes on router.
func Register(router *http.Router, logger *slog.Logger) {
	router.GET("/messages", Messages())
	router.POST("/", FormPost(logger))
	router.POST("/messages", PostMessage(logger))
}

// Messages echoes the id and user query parameters,
// e.g. GET /messages?id=5&user=Ivan.
func Messages() http.HandlerFunc {
	return func(req *http.Request, res *http.Response) {
		id := req.Query.First("id", "unknown")
		user := req.Query.First("user", "guest")

		res.WithHTML("<h1>Messages</h1><p>User: " + user + "</p><p>ID: " + id + "</p>")
	}
}

// FormPost accepts the form of forms.html.
func FormPost(logger *slog.Logger) http.HandlerFunc {
	return func(req *http.Request, res *http.Response) {
		queryValue := req.Query.First("value", "none")
		title := req.Form.First("title", "без заголовка")
		values := req.Form.Get("value")

		logger.InfoContext(req.Context(), "form received",
			"query_value", queryValue,
			"title", title,
			"values", values,
		)

		res.WithStatus(http.StatusCreated).WithText("POST data received! Title: " + title)
	}
}

// PostMessage accepts a raw message body.
func PostMessage(logger *slog.Logger) http.HandlerFunc {
	return func(req *http.Request, res *http.Response) {
		logger.InfoContext(req.Context(), "message received", "body", string(req.Body))

		res.WithStatus(http.StatusCreated).WithText(MessageReceived)
	}
}
