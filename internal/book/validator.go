package book

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	minPublicationYear = 2001

	titleRules  = "min=2,max=50,alnumspace"
	authorRules = "min=2,max=50"

	msgTitleRequired          = "Title field is required! and cannot be empty/blank"
	msgAuthorRequired         = "Author field is required! and cannot be empty/blank"
	msgInvalidTitle           = "Title must be between 2 and 50 characters and contain only English alphabet or a combination of English alphabet and number"
	msgInvalidAuthor          = "Author Name(s) must be between 2 and 50 characters"
	msgInvalidPublicationYear = "Publication year must be in the range between 2001 and the present year"
)

var alnumSpaceRX = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

var fields = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("alnumspace", func(fl validator.FieldLevel) bool {
		return alnumSpaceRX.MatchString(fl.Field().String())
	})
	if err != nil {
		panic("book: register alnumspace validation: " + err.Error())
	}
	return v
}

// Validator checks candidate field values before they reach storage.
// Every check except CheckTitleUnique is in-memory only.
type Validator struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewValidator returns a Validator that consults repo for title uniqueness.
func NewValidator(repo Repository, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{repo: repo, now: time.Now, logger: logger}
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// RequireTitle fails with KindTitleRequired for a nil, empty or blank title.
func (v *Validator) RequireTitle(title *string) error {
	if isBlank(title) {
		v.logger.Error(msgTitleRequired)
		return &Error{Kind: KindTitleRequired, Message: msgTitleRequired}
	}
	return nil
}

// RequireAuthor fails with KindAuthorRequired for a nil, empty or blank author.
func (v *Validator) RequireAuthor(author *string) error {
	if isBlank(author) {
		v.logger.Error(msgAuthorRequired)
		return &Error{Kind: KindAuthorRequired, Message: msgAuthorRequired}
	}
	return nil
}

// CheckTitleUnique fails with KindAlreadyExists when another book already
// carries title under case-insensitive comparison. The book with id
// excludeID is ignored so a record never conflicts with itself; pass 0 when
// there is no such record.
func (v *Validator) CheckTitleUnique(ctx context.Context, title string, excludeID int64) error {
	existing, err := v.repo.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return internalError("checking title uniqueness", err)
	}
	if excludeID != 0 && existing.ID == excludeID {
		return nil
	}
	msg := "Book with this title: " + title + " already exists. Please use a different title"
	v.logger.Error(msg, zap.Int64("book_id", existing.ID))
	return &Error{Kind: KindAlreadyExists, Message: msg}
}

// ValidateTitle requires 2 to 50 characters drawn from ASCII letters, digits and spaces.
func (v *Validator) ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" || fields.Var(title, titleRules) != nil {
		v.logger.Error("invalid title", zap.String("title", title))
		return &Error{Kind: KindInvalidTitle, Message: msgInvalidTitle}
	}
	return nil
}

// ValidateAuthor requires 2 to 50 characters.
func (v *Validator) ValidateAuthor(author string) error {
	if strings.TrimSpace(author) == "" || fields.Var(author, authorRules) != nil {
		v.logger.Error("invalid author", zap.String("author", author))
		return &Error{Kind: KindInvalidAuthor, Message: msgInvalidAuthor}
	}
	return nil
}

// ValidatePublicationYear requires a year between 2001 and the current year
// inclusive. The current year is read from the clock on every call.
func (v *Validator) ValidatePublicationYear(year *int) error {
	if year == nil || *year < minPublicationYear || *year > v.now().Year() {
		logFields := []zap.Field{}
		if year != nil {
			logFields = append(logFields, zap.Int("publication_year", *year))
		}
		v.logger.Error("invalid publication year", logFields...)
		return &Error{Kind: KindInvalidPublicationYear, Message: msgInvalidPublicationYear}
	}
	return nil
}
