package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
)

type clientRepository struct {
	db *DB
}

var _ client.Repository = (*clientRepository)(nil) // interface compliance check

func NewClientRepository(db *DB) client.Repository {
	return &clientRepository{db: db}
}

func (repo *clientRepository) CreateClient(ctx context.Context, c client.Client, _ ...core.DBExecutor) (client.Client, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.clients[c.ID] = c
	return c, nil
}

func (repo *clientRepository) GetClient(ctx context.Context, id string, _ ...core.DBExecutor) (client.Client, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if err := repo.db.failure("GetClient"); err != nil {
		return client.Client{}, err
	}
	if c, ok := repo.db.clients[id]; ok {
		return c, nil
	}
	return client.Client{}, core.NewNotFoundError("client", id)
}

func (repo *clientRepository) QueryClients(ctx context.Context, filter client.QueryFilter, _ ...core.DBExecutor) ([]client.Client, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	search := strings.ToLower(filter.Search)
	clients := make([]client.Client, 0, len(repo.db.clients))
	for _, c := range repo.db.clients {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(c.Phone, search) {
			continue
		}
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}
