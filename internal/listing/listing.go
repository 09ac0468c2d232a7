// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listing derives the view-specific subsets of posts shown by the
// frontend: category and starred filters, newest-first ordering, fixed-size
// pages, and content excerpts. All functions return new slices and never
// modify their input.
package listing

import (
	"sort"
	"strings"
	"unicode/utf8"

	"nextblog/internal/models"
)

const (
	// DefaultPageSize is the number of posts on a listing page.
	DefaultPageSize = 9

	// ExcerptLength is the number of characters of content shown in lists.
	ExcerptLength = 100

	// LatestCount is the number of posts featured on the homepage.
	LatestCount = 3
)

// Categories is the conventional category set offered by the navigation
// and the create form. The API accepts any non-empty category.
var Categories = []string{"health", "lifestyle", "sports"}

// Filter selects a subset of posts. StarredOnly takes precedence over
// Category; the zero Filter selects everything.
type Filter struct {
	Category    string
	StarredOnly bool
}

// Apply returns the posts matching f.
func Apply(posts []models.Post, f Filter) []models.Post {
	switch {
	case f.StarredOnly:
		return Starred(posts)
	case f.Category != "":
		return FilterByCategory(posts, f.Category)
	default:
		return append([]models.Post(nil), posts...)
	}
}

// FilterByCategory keeps posts whose category equals category, ignoring case.
func FilterByCategory(posts []models.Post, category string) []models.Post {
	out := []models.Post{}
	for _, p := range posts {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Starred keeps posts with IsStar set, whatever their category.
func Starred(posts []models.Post) []models.Post {
	out := []models.Post{}
	for _, p := range posts {
		if p.IsStar {
			out = append(out, p)
		}
	}
	return out
}

// SortNewestFirst returns a copy ordered by CreatedAt descending. Posts
// with equal timestamps keep their relative order.
func SortNewestFirst(posts []models.Post) []models.Post {
	out := append([]models.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Latest returns the n newest posts.
func Latest(posts []models.Post, n int) []models.Post {
	sorted := SortNewestFirst(posts)
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Page is one page of a paginated listing.
type Page struct {
	Items      []models.Post
	Number     int // 1-based, always within [1, TotalPages]
	Size       int
	TotalPages int // at least 1, an empty listing is one empty page
	TotalItems int
}

// Paginate slices posts into pages of size and returns page number.
// Out-of-range page numbers are clamped to the nearest valid page. A
// non-positive size falls back to DefaultPageSize.
func Paginate(posts []models.Post, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(posts)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	number = ClampPage(number, totalPages)

	start := (number - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	items := []models.Post{}
	if start < total {
		items = append(items, posts[start:end]...)
	}

	return Page{
		Items:      items,
		Number:     number,
		Size:       size,
		TotalPages: totalPages,
		TotalItems: total,
	}
}

// ClampPage restricts number to [1, totalPages].
func ClampPage(number, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if number < 1 {
		return 1
	}
	if number > totalPages {
		return totalPages
	}
	return number
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Prev returns the previous page number, clamped.
func (p Page) Prev() int { return ClampPage(p.Number-1, p.TotalPages) }

// Next returns the next page number, clamped.
func (p Page) Next() int { return ClampPage(p.Number+1, p.TotalPages) }

// Numbers lists every page number for the pager.
func (p Page) Numbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// Excerpt returns the first n characters of content and whether anything
// was cut off. Counting is by rune so multi-byte text is never split.
func Excerpt(content string, n int) (string, bool) {
	if n < 0 {
		n = 0
	}
	if utf8.RuneCountInString(content) <= n {
		return content, false
	}
	runes := []rune(content)
	return string(runes[:n]), true
}
