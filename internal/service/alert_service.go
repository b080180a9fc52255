package service

import (
	"context"
	"fmt"

	"roadwatch/internal/domain"
	"roadwatch/pkg/e"
)

type alertService struct {
	repo AlertRepository
}

func NewAlertService(repo AlertRepository) AlertService {
	return &alertService{repo: repo}
}

func (s *alertService) Create(ctx context.Context, req domain.CreateAlertRequest) (*domain.Alert, error) {
	const op = "service.Alert.Create"

	if !req.Type.Valid() {
		return nil, fmt.Errorf("%s: type %q: %w", op, req.Type, e.ErrInvalidInput)
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}

	alert := &domain.Alert{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Accuracy:    req.Accuracy,
		Address:     req.Address,
		Place:       req.Place,
		Region:      req.Region,
		Country:     req.Country,
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *alertService) List(ctx context.Context) ([]*domain.Alert, error) {
	return s.repo.List(ctx)
}

func (s *alertService) Get(ctx context.Context, id int64) (*domain.Alert, error) {
	return s.repo.Get(ctx, id)
}

// Update merges only the fields present in the request into the stored alert.
func (s *alertService) Update(ctx context.Context, id int64, req domain.UpdateAlertRequest) (*domain.Alert, error) {
	const op = "service.Alert.Update"

	alert, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		alert.Title = *req.Title
	}
	if req.Description != nil {
		alert.Description = *req.Description
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, fmt.Errorf("%s: type %q: %w", op, *req.Type, e.ErrInvalidInput)
		}
		alert.Type = *req.Type
	}
	if req.Lat != nil {
		alert.Lat = *req.Lat
	}
	if req.Lng != nil {
		alert.Lng = *req.Lng
	}
	if alert.Lat < -90 || alert.Lat > 90 || alert.Lng < -180 || alert.Lng > 180 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	if req.Accuracy != nil {
		alert.Accuracy = *req.Accuracy
	}
	if req.Address != nil {
		alert.Address = *req.Address
	}
	if req.Place != nil {
		alert.Place = *req.Place
	}
	if req.Region != nil {
		alert.Region = *req.Region
	}
	if req.Country != nil {
		alert.Country = *req.Country
	}

	if err := s.repo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *alertService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *alertService) FindNearby(ctx context.Context, lat, lng float64) ([]*domain.Alert, error) {
	return s.repo.FindNearby(ctx, lat, lng)
}
