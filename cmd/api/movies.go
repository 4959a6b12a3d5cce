package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/liliang-cn/catalog/internal/data"
	"github.com/liliang-cn/catalog/internal/validator"
)

// movieInput 新建和整体替换共用的请求体
type movieInput struct {
	Title       string       `json:"title"`
	Director    string       `json:"director"`
	Duration    data.Runtime `json:"duration"`
	Budget      *float64     `json:"budget"`
	Description string       `json:"description"`
	ImageURL    string       `json:"imageUrl"`
}

func (in movieInput) movie(id int64) *data.Movie {
	return &data.Movie{
		ID:          id,
		Title:       in.Title,
		Director:    in.Director,
		Duration:    in.Duration,
		Budget:      in.Budget,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
}

// listMoviesHandler 返回所有电影, 可以用 minimum-duration 过滤
func (app *application) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	qs := r.URL.Query()

	var filters data.MovieFilters
	if qs.Has("minimum-duration") {
		filters.MinimumDuration = app.readInt(qs, "minimum-duration", 0, v)
		data.ValidateMovieFilters(v, filters)
	}

	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	movies, err := app.models.Movies.GetAll(filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, movies, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showMovieHandler 根据 ID 获取电影
func (app *application) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.models.Movies.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createMovieHandler 新建电影
func (app *application) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	var input movieInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie := input.movie(0)

	v := validator.New()
	if data.ValidateMovie(v, movie); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Movies.Insert(movie)
	if err != nil {
		app.movieWriteError(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/movies/%d", movie.ID))

	err = app.writeJSON(w, http.StatusCreated, movie, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateMovieHandler 部分更新, 只修改请求中出现的字段
func (app *application) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	var patch data.MoviePatch

	err = app.readJSON(w, r, &patch)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateMoviePatch(v, patch); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	movie, err := app.models.Movies.Update(id, patch)
	if err != nil {
		app.movieWriteError(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// replaceMovieHandler 整体替换电影, 不存在时以路径中的 ID 新建并返回 201
func (app *application) replaceMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input movieInput

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie := input.movie(id)

	v := validator.New()
	if data.ValidateMovie(v, movie); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	created, err := app.models.Movies.Replace(movie)
	if err != nil {
		app.movieWriteError(w, r, err)
		return
	}

	status := http.StatusOK
	var headers http.Header
	if created {
		status = http.StatusCreated
		headers = make(http.Header)
		headers.Set("Location", fmt.Sprintf("/movies/%d", movie.ID))
	}

	err = app.writeJSON(w, status, movie, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteMovieHandler 删除电影并返回被删除的记录
func (app *application) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.models.Movies.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// movieWriteError 把写操作的错误映射成响应
func (app *application) movieWriteError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *data.ValidationError

	switch {
	case errors.As(err, &validationErr):
		app.failedValidationResponse(w, r, validationErr.Errors)
	case errors.Is(err, data.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, data.ErrDuplicateRecord):
		app.duplicateMovieResponse(w, r)
	case errors.Is(err, data.ErrIDSpaceExhausted):
		app.idSpaceExhaustedResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
