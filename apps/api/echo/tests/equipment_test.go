package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
)

func Test_equipmentApi(t *testing.T) {
	env := setup(t)
	token := env.token(t, env.staff)

	rec := env.do(t, http.MethodPost, "/v1/equipment", token, marchallObj(t, equipment.NewEquipment{
		Name: "Laser cutter",
		Type: "Laser",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var eq equipment.Equipment
	decode(t, rec, &eq)
	assert.Equal(t, equipment.StatusAvailable, eq.Status)
	assert.Equal(t, "laser", eq.Type)

	statusPath := "/v1/equipment/" + eq.ID + "/status"

	t.Run("to maintenance", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, statusPath, token, marchallObj(t, equipment.StatusUpdate{Status: equipment.StatusMaintenance}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got equipment.Equipment
		decode(t, rec, &got)
		assert.Equal(t, equipment.StatusMaintenance, got.Status)
	})

	t.Run("filtered by status", func(t *testing.T) {
		env.seedEquipment(t, equipment.StatusAvailable)
		rec := env.do(t, http.MethodGet, "/v1/equipment?status=maintenance", token)
		var items []equipment.Equipment
		decode(t, rec, &items)
		require.Len(t, items, 1)
		assert.Equal(t, eq.ID, items[0].ID)
	})

	t.Run("in_use cannot be set by hand", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, statusPath, token, marchallObj(t, equipment.StatusUpdate{Status: equipment.StatusInUse}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec).Fields, "status")
	})

	t.Run("in use equipment keeps its status", func(t *testing.T) {
		busy := env.seedEquipment(t, equipment.StatusInUse)
		rec := env.do(t, http.MethodPut, "/v1/equipment/"+busy.ID+"/status", token,
			marchallObj(t, equipment.StatusUpdate{Status: equipment.StatusAvailable}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
