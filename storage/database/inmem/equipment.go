package inmemdb

import (
	"context"
	"sort"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
)

type equipmentRepository struct {
	db *DB
}

var _ equipment.Repository = (*equipmentRepository)(nil) // interface compliance check

func NewEquipmentRepository(db *DB) equipment.Repository {
	return &equipmentRepository{db: db}
}

func (repo *equipmentRepository) CreateEquipment(ctx context.Context, eq equipment.Equipment, _ ...core.DBExecutor) (equipment.Equipment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.equipment[eq.ID] = eq
	return eq, nil
}

// GetEquipment ignores forUpdate: transactions are already serialised.
func (repo *equipmentRepository) GetEquipment(ctx context.Context, id string, _ bool, _ ...core.DBExecutor) (equipment.Equipment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if eq, ok := repo.db.equipment[id]; ok {
		return eq, nil
	}
	return equipment.Equipment{}, core.NewNotFoundError("equipment", id)
}

func (repo *equipmentRepository) QueryEquipment(ctx context.Context, filter equipment.QueryFilter, _ ...core.DBExecutor) ([]equipment.Equipment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	eqs := make([]equipment.Equipment, 0)
	for _, eq := range repo.db.equipment {
		if filter.Status != "" && eq.Status != filter.Status {
			continue
		}
		if filter.Type != "" && eq.Type != filter.Type {
			continue
		}
		eqs = append(eqs, eq)
	}
	sort.Slice(eqs, func(i, j int) bool { return eqs[i].Name < eqs[j].Name })
	return eqs, nil
}

func (repo *equipmentRepository) UpdateEquipmentStatus(ctx context.Context, eq equipment.Equipment, _ ...core.DBExecutor) (equipment.Equipment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.failure("UpdateEquipmentStatus"); err != nil {
		return equipment.Equipment{}, err
	}
	orig, ok := repo.db.equipment[eq.ID]
	if !ok {
		return equipment.Equipment{}, core.NewNotFoundError("equipment", eq.ID)
	}
	orig.Status = eq.Status
	orig.UpdatedAt = eq.UpdatedAt
	repo.db.equipment[eq.ID] = orig
	return orig, nil
}
