package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
)

const clientColumns = "id, name, birth_date, phone, disability_type, address, notes, created_at, updated_at"

var clientOrderings = map[string]bool{"name": true, "created_at": true, "birth_date": true}

type clientRepository struct {
	repository
}

var _ client.Repository = (*clientRepository)(nil) // interface compliance check

func NewClientRepository(exec core.DBExecutor) *clientRepository {
	return &clientRepository{repository{exec: exec}}
}

func (repo clientRepository) CreateClient(ctx context.Context, c client.Client, exec ...core.DBExecutor) (client.Client, error) {
	q := `INSERT INTO clients (` + clientColumns + `)
		VALUES (:id, :name, :birth_date, :phone, :disability_type, :address, :notes, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, c); err != nil {
		return client.Client{}, errors.Wrap(err, "inserting client")
	}
	return c, nil
}

func (repo clientRepository) GetClient(ctx context.Context, id string, exec ...core.DBExecutor) (client.Client, error) {
	var c client.Client
	q := "SELECT " + clientColumns + " FROM clients WHERE id = $1"
	if err := repo.getExec(exec).GetContext(ctx, &c, q, id); err != nil {
		return client.Client{}, trapNoRowsErr(err, "client", id, "selecting client")
	}
	return c, nil
}

func (repo clientRepository) QueryClients(ctx context.Context, filter client.QueryFilter, exec ...core.DBExecutor) ([]client.Client, error) {
	qb := psql.Select(clientColumns).From("clients").OrderBy(orderBy(filter.Ordering, clientOrderings, "name ASC")...)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		qb = qb.Where(sq.Or{sq.ILike{"name": pattern}, sq.Like{"phone": pattern}})
	}
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building clients query")
	}

	clients := make([]client.Client, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &clients, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting clients")
	}
	return clients, nil
}
