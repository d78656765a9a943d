package services

import (
	"context"

	"padoca/internal/common"
	"padoca/internal/models"
	"padoca/internal/repositories"
)

// ClientService manages client companies. Email uniqueness is checked up
// front so the caller sees a domain message instead of a constraint error.
type ClientService interface {
	Create(ctx context.Context, client *models.Client) error
	Get(ctx context.Context, id int64) (*models.Client, error)
	List(ctx context.Context, page, limit int) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Remove(ctx context.Context, id int64) error
}

type clientService struct {
	clientRepo repositories.ClientRepository
}

func NewClientService(clientRepo repositories.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func validateClient(client *models.Client) error {
	if err := common.ValidateRequiredString(client.Name, "name"); err != nil {
		return common.NewBadRequest("%s", err.Error())
	}
	if err := common.ValidateRequiredString(client.Email, "email"); err != nil {
		return common.NewBadRequest("%s", err.Error())
	}
	return nil
}

func (s *clientService) Create(ctx context.Context, client *models.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}
	existing, err := s.clientRepo.GetByEmail(ctx, client.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return common.NewBadRequest("a client with email %s already exists", client.Email)
	}
	return s.clientRepo.Create(ctx, client)
}

func (s *clientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, common.NewNotFound("client", id)
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, page, limit int) ([]*models.Client, error) {
	page, limit = common.ValidatePaginationParams(page, limit)
	return s.clientRepo.List(ctx, page, limit)
}

func (s *clientService) Update(ctx context.Context, client *models.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}
	existing, err := s.clientRepo.GetByID(ctx, client.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.NewNotFound("client", client.ID)
	}
	if existing.Email != client.Email {
		other, err := s.clientRepo.GetByEmail(ctx, client.Email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != client.ID {
			return common.NewBadRequest("a client with email %s already exists", client.Email)
		}
	}
	return s.clientRepo.Update(ctx, client)
}

func (s *clientService) Remove(ctx context.Context, id int64) error {
	existing, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.NewNotFound("client", id)
	}
	return s.clientRepo.SoftDelete(ctx, id)
}
