package book

import (
	"time"
)

// Book represents a catalog entry as persisted by a Repository.
type Book struct {
	ID              int64
	Title           string
	Author          string
	ISBN            *string
	Quantity        *int
	PublicationYear int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Request carries the client-supplied fields for add and update.
// A nil field is absent; update leaves the stored value untouched.
type Request struct {
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	ISBN            *string `json:"isbn"`
	Quantity        *int    `json:"quantity"`
	PublicationYear *int    `json:"publicationYear"`
}

// Response is the client-facing view of a Book.
type Response struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	ISBN            *string `json:"isbn"`
	Quantity        *int    `json:"quantity"`
	PublicationYear int     `json:"publicationYear"`
}

// PaginatedResponse is one page of books. It deliberately carries no total count.
type PaginatedResponse struct {
	Contents         []Response `json:"contents"`
	PageElementCount int        `json:"pageElementCount"`
	PageSize         int        `json:"pageSize"`
}

// Page is a slice of the collection as returned by a Repository.
type Page struct {
	Items            []Book
	NumberOfElements int
	Size             int
}

func toResponse(b Book) Response {
	return Response{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Quantity:        b.Quantity,
		PublicationYear: b.PublicationYear,
	}
}

func toResponses(books []Book) []Response {
	out := make([]Response, 0, len(books))
	for _, b := range books {
		out = append(out, toResponse(b))
	}
	return out
}

func fromRequest(req Request) Book {
	var b Book
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.PublicationYear != nil {
		b.PublicationYear = *req.PublicationYear
	}
	b.ISBN = req.ISBN
	b.Quantity = req.Quantity
	return b
}
