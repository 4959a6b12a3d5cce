package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/liliang-cn/catalog/internal/data"
	"github.com/liliang-cn/catalog/internal/validator"
)

type textInput struct {
	Content string `json:"content"`
	Level   string `json:"level"`
}

func (app *application) listTextsHandler(w http.ResponseWriter, r *http.Request) {
	filters := data.TextFilters{
		Level: app.readString(r.URL.Query(), "level", ""),
	}

	v := validator.New()
	if data.ValidateTextFilters(v, filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	texts, err := app.models.Texts.GetAll(filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, texts, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showTextHandler(w http.ResponseWriter, r *http.Request) {
	text, err := app.models.Texts.Get(app.readStringParam(r, "id"))
	if err != nil {
		app.textWriteError(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, text, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createTextHandler(w http.ResponseWriter, r *http.Request) {
	var input textInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	text := &data.Text{Content: input.Content, Level: input.Level}

	v := validator.New()
	if data.ValidateText(v, text); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Texts.Insert(text)
	if err != nil {
		app.textWriteError(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/texts/"+url.PathEscape(text.ID))

	err = app.writeJSON(w, http.StatusCreated, text, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateTextHandler(w http.ResponseWriter, r *http.Request) {
	var patch data.TextPatch

	err := app.readJSON(w, r, &patch)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateTextPatch(v, patch); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	text, err := app.models.Texts.Update(app.readStringParam(r, "id"), patch)
	if err != nil {
		app.textWriteError(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, text, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// replaceTextHandler 整体替换文本, 不存在时用路径中的 ID 新建
func (app *application) replaceTextHandler(w http.ResponseWriter, r *http.Request) {
	var input textInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	text := &data.Text{
		ID:      app.readStringParam(r, "id"),
		Content: input.Content,
		Level:   input.Level,
	}

	v := validator.New()
	if data.ValidateText(v, text); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	created, err := app.models.Texts.Replace(text)
	if err != nil {
		app.textWriteError(w, r, err)
		return
	}

	status := http.StatusOK
	var headers http.Header
	if created {
		status = http.StatusCreated
		headers = make(http.Header)
		headers.Set("Location", "/texts/"+url.PathEscape(text.ID))
	}

	err = app.writeJSON(w, status, text, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteTextHandler(w http.ResponseWriter, r *http.Request) {
	text, err := app.models.Texts.Delete(app.readStringParam(r, "id"))
	if err != nil {
		app.textWriteError(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, text, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) textWriteError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *data.ValidationError

	switch {
	case errors.As(err, &validationErr):
		app.failedValidationResponse(w, r, validationErr.Errors)
	case errors.Is(err, data.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
