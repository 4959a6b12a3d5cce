package main

import (
	"context"
	"net/http"
)

// 基于string定义一个contextType
type contextKey string

// 定义一个常量用来从请求的context中获取/设置请求 ID
const requestIDContextKey = contextKey("requestID")

// contextSetRequestID 返回一个复制的 request，其 context 中带有请求 ID
func (app *application) contextSetRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

// contextGetRequestID 从 context 中取请求 ID, 没有经过 requestID 中间件时返回空字符串
func (app *application) contextGetRequestID(r *http.Request) string {
	id, ok := r.Context().Value(requestIDContextKey).(string)
	if !ok {
		return ""
	}
	return id
}
