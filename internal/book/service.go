package book

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Service provides book-related business logic.
type Service struct {
	repo      Repository
	validator *Validator
	logger    *zap.Logger
}

// NewService creates a new book service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		validator: NewValidator(repo, logger),
		logger:    logger,
	}
}

// Add validates req and persists it as a new book. Every validation failure,
// including a duplicate title, is reported as KindBookCreation.
func (s *Service) Add(ctx context.Context, req Request) (Response, error) {
	if err := s.validateNew(ctx, req); err != nil {
		return Response{}, s.creationError(err)
	}

	b := fromRequest(req)
	if err := s.repo.Save(ctx, &b); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			return Response{}, s.creationError(&Error{
				Kind:    KindAlreadyExists,
				Message: "Book with this title: " + b.Title + " already exists. Please use a different title",
			})
		}
		s.logger.Error("error while saving book", zap.String("title", b.Title), zap.Error(err))
		return Response{}, internalError("saving book", err)
	}

	s.logger.Info("new book saved", zap.Int64("book_id", b.ID))
	return toResponse(b), nil
}

func (s *Service) validateNew(ctx context.Context, req Request) error {
	if err := s.validator.RequireTitle(req.Title); err != nil {
		return err
	}
	if err := s.validator.RequireAuthor(req.Author); err != nil {
		return err
	}
	if err := s.validator.CheckTitleUnique(ctx, *req.Title, 0); err != nil {
		return err
	}
	if err := s.validator.ValidateTitle(*req.Title); err != nil {
		return err
	}
	if err := s.validator.ValidateAuthor(*req.Author); err != nil {
		return err
	}
	return s.validator.ValidatePublicationYear(req.PublicationYear)
}

// creationError folds a validation failure into KindBookCreation. The
// validation error stays reachable through errors.Is.
func (s *Service) creationError(err error) error {
	if !isValidationKind(KindOf(err)) {
		return err
	}
	return &Error{
		Kind:    KindBookCreation,
		Message: "Error Occurred while Adding New Book: " + err.Error(),
		Err:     err,
	}
}

// List returns one page of books. pageNumber is zero-based.
func (s *Service) List(ctx context.Context, pageNumber, pageSize int) (PaginatedResponse, error) {
	if pageNumber < 0 || pageSize <= 0 {
		return PaginatedResponse{}, &Error{
			Kind:    KindInvalidPage,
			Message: fmt.Sprintf("invalid page request: pageNo=%d pageSize=%d", pageNumber, pageSize),
		}
	}

	// The row offset would overflow, so the page lies past any stored book.
	if pageNumber > math.MaxInt/pageSize {
		return PaginatedResponse{Contents: []Response{}, PageSize: pageSize}, nil
	}

	page, err := s.repo.FindPage(ctx, pageNumber, pageSize)
	if err != nil {
		s.logger.Error("error occurred while retrieving books with pagination", zap.Error(err))
		return PaginatedResponse{}, internalError("retrieving book list", err)
	}

	s.logger.Debug("book list retrieved",
		zap.Int("page_number", pageNumber),
		zap.Int("page_element_count", page.NumberOfElements),
	)
	return PaginatedResponse{
		Contents:         toResponses(page.Items),
		PageElementCount: page.NumberOfElements,
		PageSize:         page.Size,
	}, nil
}

// GetByID returns the book with the given id.
func (s *Service) GetByID(ctx context.Context, id int64) (Response, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Response{}, &Error{Kind: KindNotFound, Message: fmt.Sprintf("Book with id %d does not exist", id)}
		}
		s.logger.Error("error while retrieving book", zap.Int64("book_id", id), zap.Error(err))
		return Response{}, internalError("retrieving book", err)
	}
	return toResponse(b), nil
}

// Search resolves searchText against the publication year or, failing a year
// parse, against title, author and isbn.
func (s *Service) Search(ctx context.Context, searchText string) ([]Response, error) {
	books, err := resolveSearch(ctx, s.repo, searchText)
	if err != nil {
		s.logger.Error("error while searching book", zap.String("search_text", searchText), zap.Error(err))
		return nil, err
	}
	s.logger.Info("book search resolved", zap.String("search_text", searchText), zap.Int("results", len(books)))
	return toResponses(books), nil
}

// Update overwrites the fields present in req after validating them. Absent
// fields keep their stored values.
func (s *Service) Update(ctx context.Context, id int64, req Request) (Response, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Response{}, &Error{
				Kind:    KindNotFound,
				Message: fmt.Sprintf("Book with id %d not found and cannot be updated", id),
			}
		}
		s.logger.Error("error while updating book", zap.Int64("book_id", id), zap.Error(err))
		return Response{}, internalError("loading book for update", err)
	}

	if req.Title != nil {
		if err := s.validator.CheckTitleUnique(ctx, *req.Title, id); err != nil {
			return Response{}, err
		}
		if err := s.validator.ValidateTitle(*req.Title); err != nil {
			return Response{}, err
		}
		b.Title = *req.Title
	}
	if req.Author != nil {
		if err := s.validator.ValidateAuthor(*req.Author); err != nil {
			return Response{}, err
		}
		b.Author = *req.Author
	}
	if req.ISBN != nil {
		b.ISBN = req.ISBN
	}
	if req.PublicationYear != nil {
		if err := s.validator.ValidatePublicationYear(req.PublicationYear); err != nil {
			return Response{}, err
		}
		b.PublicationYear = *req.PublicationYear
	}
	if req.Quantity != nil {
		b.Quantity = req.Quantity
	}

	if err := s.repo.Save(ctx, &b); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			return Response{}, &Error{
				Kind:    KindAlreadyExists,
				Message: "Book with this title: " + b.Title + " already exists. Please use a different title",
			}
		}
		if errors.Is(err, ErrNotFound) {
			return Response{}, &Error{
				Kind:    KindNotFound,
				Message: fmt.Sprintf("Book with id %d not found and cannot be updated", id),
			}
		}
		s.logger.Error("error while updating book", zap.Int64("book_id", id), zap.Error(err))
		return Response{}, internalError("updating book", err)
	}

	s.logger.Info("book updated", zap.Int64("book_id", id))
	return toResponse(b), nil
}

// Delete removes the book with the given id. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.logger.Error("error while deleting book", zap.Int64("book_id", id), zap.Error(err))
		return internalError("deleting book", err)
	}
	s.logger.Info("book deleted", zap.Int64("book_id", id))
	return nil
}
