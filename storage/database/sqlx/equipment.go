package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
)

const equipmentColumns = "id, name, type, serial_number, location, status, created_at, updated_at"

type equipmentRepository struct {
	repository
}

var _ equipment.Repository = (*equipmentRepository)(nil) // interface compliance check

func NewEquipmentRepository(exec core.DBExecutor) *equipmentRepository {
	return &equipmentRepository{repository{exec: exec}}
}

func (repo equipmentRepository) CreateEquipment(ctx context.Context, eq equipment.Equipment, exec ...core.DBExecutor) (equipment.Equipment, error) {
	q := `INSERT INTO equipment (` + equipmentColumns + `)
		VALUES (:id, :name, :type, :serial_number, :location, :status, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, eq); err != nil {
		return equipment.Equipment{}, errors.Wrap(err, "inserting equipment")
	}
	return eq, nil
}

func (repo equipmentRepository) GetEquipment(ctx context.Context, id string, forUpdate bool, exec ...core.DBExecutor) (equipment.Equipment, error) {
	var eq equipment.Equipment
	q := "SELECT " + equipmentColumns + " FROM equipment WHERE id = $1"
	if forUpdate {
		q += " FOR UPDATE"
	}
	if err := repo.getExec(exec).GetContext(ctx, &eq, q, id); err != nil {
		return equipment.Equipment{}, trapNoRowsErr(err, "equipment", id, "selecting equipment")
	}
	return eq, nil
}

func (repo equipmentRepository) QueryEquipment(ctx context.Context, filter equipment.QueryFilter, exec ...core.DBExecutor) ([]equipment.Equipment, error) {
	qb := psql.Select(equipmentColumns).From("equipment").OrderBy("name")
	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Type != "" {
		qb = qb.Where(sq.Eq{"type": filter.Type})
	}
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building equipment query")
	}

	eqs := make([]equipment.Equipment, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &eqs, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting equipment")
	}
	return eqs, nil
}

func (repo equipmentRepository) UpdateEquipmentStatus(ctx context.Context, eq equipment.Equipment, exec ...core.DBExecutor) (equipment.Equipment, error) {
	q := "UPDATE equipment SET status = $1, updated_at = $2 WHERE id = $3"
	res, err := repo.getExec(exec).ExecContext(ctx, q, eq.Status, eq.UpdatedAt, eq.ID)
	if err != nil {
		return equipment.Equipment{}, errors.Wrap(err, "updating equipment status")
	}
	if err = checkAffected(res, "equipment", eq.ID); err != nil {
		return equipment.Equipment{}, err
	}
	return eq, nil
}
