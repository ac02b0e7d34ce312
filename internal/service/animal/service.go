package animal

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/herd-api/internal/model"
	"github.com/jwalitptl/herd-api/internal/repository"
	"github.com/jwalitptl/herd-api/pkg/errors"
	"github.com/jwalitptl/herd-api/pkg/validator"
)

type Service struct {
	repo     repository.AnimalRepository
	validate *validator.Validator
}

func NewService(repo repository.AnimalRepository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
	}
}

func (s *Service) CreateAnimal(ctx context.Context, animal *model.Animal) error {
	if animal.Status == "" {
		animal.Status = model.AnimalStatusAlive
	}
	if err := s.validateAnimal(animal); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, animal); err != nil {
		return errors.Internal(fmt.Errorf("failed to create animal: %w", err))
	}
	return nil
}

func (s *Service) GetAnimal(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	animal, err := s.repo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("animal", err)
		}
		return nil, errors.Internal(fmt.Errorf("failed to get animal: %w", err))
	}
	return animal, nil
}

func (s *Service) UpdateAnimal(ctx context.Context, animal *model.Animal) error {
	if err := s.validateAnimal(animal); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, animal); err != nil {
		return errors.Internal(fmt.Errorf("failed to update animal: %w", err))
	}
	return nil
}

func (s *Service) DeleteAnimal(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Internal(fmt.Errorf("failed to delete animal: %w", err))
	}
	return nil
}

func (s *Service) ListAnimals(ctx context.Context, farmID uuid.UUID, filters *model.AnimalFilters) ([]*model.Animal, int, error) {
	animals, total, err := s.repo.List(ctx, farmID, filters)
	if err != nil {
		return nil, 0, errors.Internal(fmt.Errorf("failed to list animals: %w", err))
	}
	return animals, total, nil
}

func (s *Service) validateAnimal(animal *model.Animal) error {
	if animal.FarmID == uuid.Nil {
		return errors.BadRequest("farm is required", nil)
	}
	if animal.Name == "" && animal.EID == "" && animal.OfficialNumber == "" {
		return errors.BadRequest("animal needs a name or an identifier", nil)
	}
	if err := s.validate.Var(string(animal.Status), "oneof=alive dead sold"); err != nil {
		return errors.BadRequest("invalid status", err)
	}
	if err := s.validate.Var(animal.Sex, "omitempty,oneof=male female"); err != nil {
		return errors.BadRequest("invalid sex", err)
	}
	return nil
}
