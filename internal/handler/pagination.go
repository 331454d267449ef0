// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Pagination holds paging state for admin list templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	BaseURL     string
	QueryString string
}

// NewPagination reads the page number from the request query and computes
// the paging state, clamping the page into range.
func NewPagination(r *http.Request, totalItems int64, perPage int) Pagination {
	page := 1
	if s := r.URL.Query().Get("page"); s != "" {
		if p, err := strconv.Atoi(s); err == nil && p > 0 {
			page = p
		}
	}

	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	// Preserve filters, drop the page parameter itself.
	params := make(url.Values)
	for k, v := range r.URL.Query() {
		if k != "page" && len(v) > 0 && v[0] != "" {
			params[k] = v
		}
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
		PrevPage:    page - 1,
		NextPage:    page + 1,
		BaseURL:     r.URL.Path,
		QueryString: params.Encode(),
	}
}

// Offset returns the row offset of the current page.
func (p Pagination) Offset() int64 {
	return int64(p.CurrentPage-1) * int64(p.PerPage)
}

// PageURL returns the URL for a page number.
func (p Pagination) PageURL(page int) string {
	if p.QueryString != "" {
		return fmt.Sprintf("%s?%s&page=%d", p.BaseURL, p.QueryString, page)
	}
	return fmt.Sprintf("%s?page=%d", p.BaseURL, page)
}

// PrevURL returns the URL for the previous page.
func (p Pagination) PrevURL() string { return p.PageURL(p.PrevPage) }

// NextURL returns the URL for the next page.
func (p Pagination) NextURL() string { return p.PageURL(p.NextPage) }

// ShouldShow reports whether the pagination controls are worth rendering.
func (p Pagination) ShouldShow() bool { return p.TotalPages > 1 }
