package book

import (
	"errors"
)

// Kind classifies a book error.
type Kind int

const (
	KindUnknown Kind = iota
	KindTitleRequired
	KindAuthorRequired
	KindInvalidTitle
	KindInvalidAuthor
	KindInvalidPublicationYear
	KindAlreadyExists
	KindNotFound
	KindBookCreation
	KindInvalidPage
	KindInternal
)

var kindNames = map[Kind]string{
	KindUnknown:                "Unknown",
	KindTitleRequired:          "TitleRequired",
	KindAuthorRequired:         "AuthorRequired",
	KindInvalidTitle:           "InvalidTitle",
	KindInvalidAuthor:          "InvalidAuthor",
	KindInvalidPublicationYear: "InvalidPublicationYear",
	KindAlreadyExists:          "AlreadyExists",
	KindNotFound:               "NotFound",
	KindBookCreation:           "BookCreationError",
	KindInvalidPage:            "InvalidPage",
	KindInternal:               "Internal",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Error is the error type returned by the book service. Two Errors match
// under errors.Is when their kinds are equal, so the sentinels below can be
// used as targets.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrTitleRequired          = &Error{Kind: KindTitleRequired}
	ErrAuthorRequired         = &Error{Kind: KindAuthorRequired}
	ErrInvalidTitle           = &Error{Kind: KindInvalidTitle}
	ErrInvalidAuthor          = &Error{Kind: KindInvalidAuthor}
	ErrInvalidPublicationYear = &Error{Kind: KindInvalidPublicationYear}
	ErrAlreadyExists          = &Error{Kind: KindAlreadyExists}
	ErrNotFound               = &Error{Kind: KindNotFound, Message: "book not found"}
	ErrBookCreation           = &Error{Kind: KindBookCreation}
	ErrInvalidPage            = &Error{Kind: KindInvalidPage}
	ErrInternal               = &Error{Kind: KindInternal}
)

// ErrDuplicateTitle is returned by a Repository when a save violates the
// case-insensitive title uniqueness constraint.
var ErrDuplicateTitle = errors.New("duplicate book title")

// KindOf reports the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func isValidationKind(k Kind) bool {
	switch k {
	case KindTitleRequired, KindAuthorRequired, KindInvalidTitle,
		KindInvalidAuthor, KindInvalidPublicationYear, KindAlreadyExists:
		return true
	}
	return false
}

func internalError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg + ": " + err.Error(), Err: err}
}
