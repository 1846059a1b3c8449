package service

import (
	"context"
	"errors"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"
	"gravoplus/internal/repository"

	"github.com/google/uuid"
)

type ExpenseService interface {
	CreateCategory(ctx context.Context, req dto.UpsertExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.ExpenseCategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpsertExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	Create(ctx context.Context, employeeID uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	List(ctx context.Context, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseService struct {
	repo repository.ExpenseRepository
}

func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (s *expenseService) CreateCategory(ctx context.Context, req dto.UpsertExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error) {
	cat := &model.ExpenseCategory{Name: req.Name}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, errors.New("une catégorie portant ce nom existe déjà")
	}
	return &dto.ExpenseCategoryResponse{ID: cat.ID.String(), Name: cat.Name}, nil
}

func (s *expenseService) ListCategories(ctx context.Context) ([]dto.ExpenseCategoryResponse, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseCategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = dto.ExpenseCategoryResponse{ID: c.ID.String(), Name: c.Name}
	}
	return out, nil
}

func (s *expenseService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpsertExpenseCategoryRequest) (*dto.ExpenseCategoryResponse, error) {
	cat := &model.ExpenseCategory{ID: id, Name: req.Name}
	if err := s.repo.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return &dto.ExpenseCategoryResponse{ID: cat.ID.String(), Name: cat.Name}, nil
}

func (s *expenseService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("impossible de supprimer une catégorie contenant des dépenses")
	}
	return s.repo.DeleteCategory(ctx, id)
}

// ─── Expenses ────────────────────────────────────────────────────────────────

func (s *expenseService) Create(ctx context.Context, employeeID uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, errors.New("identifiant de catégorie invalide")
	}
	spentAt, err := time.Parse("2006-01-02", req.SpentAt)
	if err != nil {
		return nil, errors.New("date de dépense invalide")
	}
	expense := &model.Expense{
		CategoryID:  categoryID,
		Label:       req.Label,
		Amount:      req.Amount,
		SpentAt:     spentAt,
		Notes:       req.Notes,
		CreatedByID: employeeID,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	created, err := s.repo.FindByID(ctx, expense.ID)
	if err != nil {
		return expenseToResponse(expense), nil
	}
	return expenseToResponse(created), nil
}

func (s *expenseService) List(ctx context.Context, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if err := validateDateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	expenses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ExpenseListResponse{
		Data:  make([]dto.ExpenseResponse, len(expenses)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range expenses {
		resp.Data[i] = *expenseToResponse(&expenses[i])
	}
	return resp, nil
}

func (s *expenseService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("dépense introuvable")
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, errors.New("identifiant de catégorie invalide")
		}
		expense.CategoryID = categoryID
		expense.Category = nil
	}
	if req.Label != "" {
		expense.Label = req.Label
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.SpentAt != "" {
		spentAt, err := time.Parse("2006-01-02", req.SpentAt)
		if err != nil {
			return nil, errors.New("date de dépense invalide")
		}
		expense.SpentAt = spentAt
	}
	if req.Notes != nil {
		expense.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	updated, err := s.repo.FindByID(ctx, expense.ID)
	if err != nil {
		return expenseToResponse(expense), nil
	}
	return expenseToResponse(updated), nil
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("dépense introuvable")
	}
	return s.repo.Delete(ctx, id)
}

func expenseToResponse(e *model.Expense) *dto.ExpenseResponse {
	resp := &dto.ExpenseResponse{
		ID:         e.ID.String(),
		CategoryID: e.CategoryID.String(),
		Label:      e.Label,
		Amount:     e.Amount,
		SpentAt:    e.SpentAt.Format("2006-01-02"),
		Notes:      e.Notes,
	}
	if e.Category != nil {
		resp.CategoryName = e.Category.Name
	}
	return resp
}
