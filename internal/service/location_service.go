package service

import (
	"fmt"

	"github.com/alphadeveloper12/dosta-backend/internal/models"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"
)

// LocationService 售货点服务
type LocationService struct {
	locationRepo repository.LocationRepository
	timeSlotRepo repository.TimeSlotRepository
	stockRepo    repository.MachineStockRepository
}

// NewLocationService 创建售货点服务
func NewLocationService(
	locationRepo repository.LocationRepository,
	timeSlotRepo repository.TimeSlotRepository,
	stockRepo repository.MachineStockRepository,
) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		timeSlotRepo: timeSlotRepo,
		stockRepo:    stockRepo,
	}
}

// ListLocations 查询启用的售货点
func (s *LocationService) ListLocations() ([]models.VendingLocation, error) {
	locations, err := s.locationRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}
	return locations, nil
}

// ListTimeSlots 查询售货点的取货时段
func (s *LocationService) ListTimeSlots(locationID uint) ([]models.PickupTimeSlot, error) {
	location, err := s.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}
	if location == nil {
		return nil, ErrLocationNotFound
	}
	slots, err := s.timeSlotRepo.ListByLocation(locationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}
	return slots, nil
}

// ListMachineStock 查询售货点的本地库存镜像
func (s *LocationService) ListMachineStock(locationID uint) ([]models.VendingMachineStock, error) {
	location, err := s.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}
	if location == nil {
		return nil, ErrLocationNotFound
	}
	return s.stockRepo.ListByLocation(locationID)
}
