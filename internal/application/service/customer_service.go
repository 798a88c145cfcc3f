package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/pkg/apperror"
	"github.com/sangkips/salonbill-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name        string
	Gender      string
	Phone       string
	Address     *string
	Birthday    *time.Time
	Anniversary *time.Time
}

// CreateCustomer creates a new customer after checking name and phone
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	ref := billing.CustomerRef{
		Name:        input.Name,
		Gender:      input.Gender,
		Phone:       input.Phone,
		Address:     lo.FromPtr(input.Address),
		Birthday:    input.Birthday,
		Anniversary: input.Anniversary,
	}
	if err := billing.ValidateCustomer(ref); err != nil {
		return nil, mapBillingError(err)
	}

	existing, err := s.customerRepo.GetByPhone(ctx, billing.NormalizePhone(input.Phone))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A customer with this phone number already exists")
	}

	customer := newCustomerEntity(ref)
	customer.Name = strings.TrimSpace(customer.Name)
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// FindByPhone looks up a customer by phone in any common formatting
func (s *CustomerService) FindByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	key := billing.NormalizePhone(phone)
	if !billing.ValidPhone(key) {
		return nil, apperror.NewBadRequestError("Phone must be 10-15 digits with an optional leading +")
	}
	customer, err := s.customerRepo.GetByPhone(ctx, key)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers matching search by name or phone
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ClearAdvance zeroes a customer's stored advance balance
func (s *CustomerService) ClearAdvance(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	if err := s.customerRepo.ClearAdvance(ctx, id); err != nil {
		return nil, err
	}
	return s.GetCustomer(ctx, id)
}
