// Package response renders the JSON envelope every endpoint returns.
package response

import "github.com/gin-gonic/gin"

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  any             `json:"data,omitempty"`
	Meta  *PaginationMeta `json:"meta,omitempty"`
	Error *ErrorBody      `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type PaginationMeta struct {
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"totalPages,omitempty"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	m := PaginationMeta{Total: total, Page: page, PageSize: limit}
	if limit > 0 {
		m.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return m
}

func Success(c *gin.Context, status int, data any, meta *PaginationMeta) {
	c.JSON(status, envelope{Ok: true, Data: data, Meta: meta})
}

func Error(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, envelope{Ok: false, Error: &ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}
